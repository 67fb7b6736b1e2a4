// Package pipeline contains the processes used by the tilehash commands, connected as a streaming pipeline (after S. Lampa - Patterns for composable concurrent pipelines in Go: https://blog.gopheracademy.com/advent-2015/composable-pipelines-improvements/)
package pipeline

// BUFFERSIZE is the size of the buffer used by the pipeline channels
const BUFFERSIZE int = 64

// process is the interface used by pipeline
type process interface {
	Run()
}

// Pipeline holds an ordered list of processes
type Pipeline struct {
	processes []process
}

// NewPipeline is the pipeline constructor
func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// AddProcesses is a method to register processes with the pipeline, in the order they pass data
func (pipeline *Pipeline) AddProcesses(procs ...process) {
	pipeline.processes = append(pipeline.processes, procs...)
}

// Run is a method that starts the pipeline, the final process runs in the foreground so Run returns once it has finished
func (pipeline *Pipeline) Run() {
	last := len(pipeline.processes) - 1
	for i, proc := range pipeline.processes {
		if i == last {
			proc.Run()
			break
		}
		go proc.Run()
	}
}

// GetNumProcesses is a method to return the number of processes registered in a pipeline
func (pipeline *Pipeline) GetNumProcesses() int {
	return len(pipeline.processes)
}
