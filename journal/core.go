package journal

import "go.uber.org/zap/zapcore"

// Core returns a zapcore.Core that records into j, so a logger can be teed
// into the journal with zapcore.NewTee or zap.WrapCore.
func (j *Journal) Core() zapcore.Core {
	return &core{j: j}
}

type core struct {
	j      *Journal
	fields []zapcore.Field
}

func (c *core) Enabled(level zapcore.Level) bool {
	return c.j.Enabled(level)
}

func (c *core) With(fields []zapcore.Field) zapcore.Core {
	next := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	next = append(next, c.fields...)
	next = append(next, fields...)
	return &core{j: c.j, fields: next}
}

func (c *core) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(e.Level) {
		return ce.AddCore(e, c)
	}
	return ce
}

func (c *core) Write(e zapcore.Entry, fields []zapcore.Field) error {
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range c.fields {
		f.AddTo(enc)
	}
	for _, f := range fields {
		f.AddTo(enc)
	}
	if e.LoggerName != "" {
		enc.Fields["logger"] = e.LoggerName
	}
	c.j.Record(e.Level, e.Message, enc.Fields)
	return nil
}

func (c *core) Sync() error { return nil }
