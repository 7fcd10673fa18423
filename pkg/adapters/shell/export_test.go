package shell

// SetOpenFunc replaces the platform opener (tests).
func (o *Opener) SetOpenFunc(fn func(string) error) {
	o.open = fn
}
