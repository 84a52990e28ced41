package misc

import "golang.org/x/exp/constraints"

func Max[T constraints.Ordered](a, b T) T {
	if a > b {
		return a
	}
	return b
}

func Min[T constraints.Ordered](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// Clamp limits v to the inclusive range [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	return Min(Max(v, lo), hi)
}

func StringLimit(s string, n int) string {
	if n < 0 {
		return ""
	}
	if n <= 3 {
		return s[:Min(n, len(s))]
	}
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

func BytesLimit(bs []byte, n int) []byte {
	if n < 0 {
		return nil
	}
	if n <= 3 {
		return bs[:Min(n, len(bs))]
	}
	if len(bs) > n {
		return append(bs[:n-3], "..."...)
	}
	return bs
}

// CollectSuccessful runs every task concurrently and returns the
// results of the ones that succeeded, in completion order. Failed
// tasks are skipped, they never fail the batch.
func CollectSuccessful[T any](tasks []func() (T, error)) []T {
	type result struct {
		value T
		err   error
	}
	results := make(chan result, len(tasks))
	for _, task := range tasks {
		task := task
		go func() {
			v, err := task()
			results <- result{value: v, err: err}
		}()
	}
	var out []T
	for range tasks {
		if r := <-results; r.err == nil {
			out = append(out, r.value)
		}
	}
	return out
}
