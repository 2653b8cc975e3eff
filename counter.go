package convert

// Counter is an Emitter that only counts what it receives. It backs the
// count-only mode.
type Counter struct {
	Headings int
	Items    int
	Events   []any // HeadingEvent and RequirementItem values, when Record is set
	Record   bool
}

func (c *Counter) Prefix() error { return nil }

func (c *Counter) Heading(h HeadingEvent) error {
	c.Headings++
	if c.Record {
		c.Events = append(c.Events, h)
	}
	return nil
}

func (c *Counter) Item(it RequirementItem) error {
	c.Items++
	if c.Record {
		c.Events = append(c.Events, it)
	}
	return nil
}

func (c *Counter) Finalize() error { return nil }
