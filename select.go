package desim

// Select suspends the calling Process until at least one of signals
// turns on, or until timeout virtual-time units have elapsed if timeout
// is provided (hasTimeout). It returns a map recording, for each input
// Signal, whether it was on at the moment Select resolved.
//
// Implementation spawns one short-lived helper Process per input Signal,
// each simply waiting on its Signal and then turning on a private
// auxiliary Signal exclusive to this call. The caller waits on that
// auxiliary Signal instead of the inputs directly, so waking on the
// first of several Signals needs no special-cased multi-wait primitive,
// only the ordinary Signal.Wait this package already has.
//
// Because the auxiliary Signal is freshly created for, and owned
// exclusively by, this call, a helper that turns it on only after the
// caller's wait has already resolved (timeout, or resolved by an
// earlier helper) has nothing left to release: it is automatically
// inert, with no extra bookkeeping required.
func Select(p *Process, timeout float64, hasTimeout bool, signals ...*Signal) (map[*Signal]bool, error) {
	aux := NewSignal()
	aux.name = "select"

	for _, s := range signals {
		s := s
		p.Add(func(hp *Process) error {
			if err := s.Wait(hp, 0, false); err != nil {
				return nil
			}
			aux.TurnOn()
			return nil
		})
	}

	waitErr := aux.Wait(p, timeout, hasTimeout)

	result := make(map[*Signal]bool, len(signals))
	for _, s := range signals {
		result[s] = s.IsOn()
	}
	return result, waitErr
}
