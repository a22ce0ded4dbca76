// Package queue computes per-study resource allocations from a batch
// queue's static profile.
package queue

import (
	"fmt"

	"github.com/hepfarm/studyctl/internal/model"
)

// Allocation is the resource request for one processing stage on one
// queue. MemoryMB is the stage total (floor times threads);
// TaskMemoryMB is what a single task requests from the scheduler.
type Allocation struct {
	Queue        string
	Threads      int
	Nodes        int
	MemoryMB     int
	TaskMemoryMB int
}

// Plan sizes an allocation for a queue given the memory floor one task
// needs. The thread count grows from 1 while the next thread still fits
// strictly under the queue's usable memory and the count is below the
// usable thread limit; with a zero floor the count stops exactly at the
// limit. Recomputed fresh for every run since the floor depends on the
// run's input files.
func Plan(q model.QueueConfig, minMemoryMB int) (Allocation, error) {
	threadsPerNode := q.ThreadsPerNode()
	if threadsPerNode <= 0 {
		return Allocation{}, fmt.Errorf("queue %s: threads per node is %d", q.Name, threadsPerNode)
	}
	if minMemoryMB < 0 {
		return Allocation{}, fmt.Errorf("queue %s: negative memory floor %d", q.Name, minMemoryMB)
	}

	maxThreads := int(float64(q.Nodes*threadsPerNode) * q.NodeShare)
	maxMemoryMB := int(float64(q.MemoryMB) * q.NodeShare)
	if maxThreads < 1 {
		return Allocation{}, fmt.Errorf("queue %s: node share %g leaves no usable threads", q.Name, q.NodeShare)
	}

	threads := 1
	for minMemoryMB*(threads+1) < maxMemoryMB && threads < maxThreads {
		threads++
	}

	return Allocation{
		Queue:        q.Name,
		Threads:      threads,
		Nodes:        (threads + threadsPerNode - 1) / threadsPerNode,
		MemoryMB:     minMemoryMB * threads,
		TaskMemoryMB: minMemoryMB,
	}, nil
}
