package engine

// fakeRand replays fixed draws. Exhausted queues return 0.
type fakeRand struct {
	floats []float64
	ints   []int
}

func (f *fakeRand) Float64() float64 {
	if len(f.floats) == 0 {
		return 0
	}
	v := f.floats[0]
	f.floats = f.floats[1:]
	return v
}

func (f *fakeRand) IntN(n int) int {
	if len(f.ints) == 0 {
		return 0
	}
	v := f.ints[0]
	f.ints = f.ints[1:]
	return v % n
}
