package impulse

import "golang.org/x/sync/errgroup"

// task splits data into one chunk per worker and calls fn on every element.
// fn receives the element index so results can be stored in input order.
func task[T any](workersCount int, data []T, fn func(i int, data T)) {
	workersCount = max(1, min(workersCount, len(data)))
	if workersCount == 1 {
		for i, d := range data {
			fn(i, d)
		}
		return
	}

	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	var g errgroup.Group
	g.SetLimit(workersCount)
	for start := 0; start < dataSize; start += chunkSize {
		start := start
		end := min(start+chunkSize, dataSize)
		g.Go(func() error {
			for i := start; i < end; i++ {
				fn(i, data[i])
			}
			return nil
		})
	}
	_ = g.Wait()
}
