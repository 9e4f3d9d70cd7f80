package orbmatch

// Close releases the loaded reference sets and any store the engine opened
// itself. Further calls fail with ErrClosed. Close is idempotent.
func (e *Engine) Close() error {
	if e == nil || e.closed.Swap(true) {
		return nil
	}
	var firstErr error
	if err := e.cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if e.closer != nil {
		if err := e.closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		e.closer = nil
	}
	return firstErr
}
