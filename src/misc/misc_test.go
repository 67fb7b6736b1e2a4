package misc

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestReadValues(t *testing.T) {
	values, err := ReadValues(strings.NewReader("# header\n5\n3\n\n -8 \n2147483647\n"))
	if err != nil {
		t.Fatal(err)
	}
	expected := []int32{5, 3, -8, 2147483647}
	if len(values) != len(expected) {
		t.Fatalf("read %v, expected %v", values, expected)
	}
	for i := range expected {
		if values[i] != expected[i] {
			t.Fatalf("read %v, expected %v", values, expected)
		}
	}
	if _, err := ReadValues(strings.NewReader("1\nfoo\n")); err == nil {
		t.Fatal("should fault on a line that isn't an integer")
	}
	if _, err := ReadValues(strings.NewReader("2147483648\n")); err == nil {
		t.Fatal("should fault on a value that doesn't fit in 32 bits")
	}
}

func TestCheckExt(t *testing.T) {
	exts := []string{"png", "jpg"}
	if err := CheckExt("dir.v2/image.png", exts); err != nil {
		t.Fatal(err)
	}
	if err := CheckExt("image.png.txt", exts); err == nil {
		t.Fatal("should fault on an unrecognised extension")
	}
	if err := CheckExt("png", exts); err == nil {
		t.Fatal("should fault on a file with no extension")
	}
}

func TestChecks(t *testing.T) {
	dir := t.TempDir()
	if err := CheckDir(dir); err != nil {
		t.Fatal(err)
	}
	if err := CheckDir(""); err == nil {
		t.Fatal("should fault with no directory")
	}
	if err := CheckFile(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("should fault with a missing file")
	}
	logFH := StartLogging(filepath.Join(dir, "logs", "test.log"))
	defer logFH.Close()
	if err := CheckFile(logFH.Name()); err != nil {
		t.Fatal(err)
	}
}

func TestCheckRequiredFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("input", "", "a required flag")
	if err := cmd.MarkFlagRequired("input"); err != nil {
		t.Fatal(err)
	}
	if err := CheckRequiredFlags(cmd.Flags()); err == nil {
		t.Fatal("should fault as the required flag hasn't been set")
	}
	if err := cmd.Flags().Set("input", "x"); err != nil {
		t.Fatal(err)
	}
	if err := CheckRequiredFlags(cmd.Flags()); err != nil {
		t.Fatal(err)
	}
}
