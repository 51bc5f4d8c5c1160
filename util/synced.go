package util

import "sync/atomic"

// SafeCounter is an int counter that is safe to use concurrently.
type SafeCounter struct {
	value atomic.Int64
}

// NewSafeInt creates a new SafeCounter starting at zero.
func NewSafeInt() *SafeCounter {
	return &SafeCounter{}
}

// Increment increments the counter's value and returns the new value.
func (sc *SafeCounter) Increment() int {
	return int(sc.value.Add(1))
}

// Set sets the value of the counter.
func (sc *SafeCounter) Set(newValue int) {
	sc.value.Store(int64(newValue))
}

// Value returns the current value of the counter.
func (sc *SafeCounter) Value() int {
	return int(sc.value.Load())
}

// SafeFlag is a boolean cell that is safe to read from any callback at call time.
type SafeFlag struct {
	value atomic.Bool
}

// NewSafeBool creates a new SafeFlag set to false.
func NewSafeBool() *SafeFlag {
	return &SafeFlag{}
}

// Set sets the value of the flag and returns the new value.
func (sf *SafeFlag) Set(newValue bool) bool {
	sf.value.Store(newValue)
	return newValue
}

// Swap sets the value of the flag and returns the previous value.
func (sf *SafeFlag) Swap(newValue bool) bool {
	return sf.value.Swap(newValue)
}

// Value returns the current value of the flag.
func (sf *SafeFlag) Value() bool {
	return sf.value.Load()
}
