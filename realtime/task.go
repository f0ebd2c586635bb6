package realtime

import "sort"

// Task is a deferred unit of work with sequencing metadata.
type Task struct {
	Run         func()
	SequenceNum uint64
	Priority    int
}

// sortTasks orders tasks by descending priority, then by submission order.
func sortTasks(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Priority != tasks[j].Priority {
			return tasks[i].Priority > tasks[j].Priority
		}
		return tasks[i].SequenceNum < tasks[j].SequenceNum
	})
}
