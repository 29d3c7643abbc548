package desim

// Intervals produces successive delays for Happens: each call returns
// the virtual-time gap before the next spawn, and ok=false to stop
// producing further spawns altogether.
type Intervals func() (delay float64, ok bool)

// Happens builds a Body that repeatedly advances by each delay intervals
// produces and spawns a fresh child running inner, tagged with tags, at
// each resulting moment. It stops spawning once intervals returns
// ok=false, or if advancing is interrupted, in which case it returns
// that error.
//
// This is the idiomatic-Go shape of a recurring pattern in greensim
// models: a driver process that exists only to produce other processes
// at a cadence (fixed interval, Poisson arrivals, a bounded burst, ...),
// expressed here as any Intervals function rather than a fixed period.
func Happens(intervals Intervals, inner Body, tags ...Tag) Body {
	return func(p *Process) error {
		for {
			delay, ok := intervals()
			if !ok {
				return nil
			}
			if err := p.Advance(delay); err != nil {
				return err
			}
			p.Add(inner, WithTags(tags...))
		}
	}
}
