package concurrent

import (
	"sync"
)

type ConsumerFunc func(interface{})

// Consume feeds items to fn on a bounded pool of workers and blocks until
// every item has been consumed. Completion order is unspecified.
func Consume(items []interface{}, fn ConsumerFunc, concurrency int) {
	if len(items) == 0 {
		return
	}

	if len(items) < concurrency {
		concurrency = len(items)
	}

	var wg sync.WaitGroup
	wg.Add(concurrency)
	itemCh := make(chan interface{})
	for i := 0; i < concurrency; i++ {
		go func() {
			for {
				item, more := <-itemCh
				if !more {
					wg.Done()
					return
				}

				fn(item)
			}
		}()
	}

	go func() {
		for _, item := range items {
			itemCh <- item
		}

		close(itemCh)
	}()

	wg.Wait()
}
