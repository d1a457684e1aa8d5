package logger

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

var (
	bufferPool = buffer.NewPool()

	levelColors = map[zapcore.Level]string{
		zapcore.DebugLevel: "\x1b[36m",
		zapcore.InfoLevel:  "\x1b[32m",
		zapcore.WarnLevel:  "\x1b[33m",
		zapcore.ErrorLevel: "\x1b[31m",
	}
)

const colorReset = "\x1b[0m"

// lineEncoder renders "<timestamp> [<LEVEL>] <message> <payload>", where the
// payload is every field of the entry collected into a single JSON object.
type lineEncoder struct {
	*zapcore.MapObjectEncoder
	pretty bool
	color  bool
}

func newLineEncoder(pretty, color bool) *lineEncoder {
	return &lineEncoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		pretty:           pretty,
		color:            color,
	}
}

func (e *lineEncoder) Clone() zapcore.Encoder {
	clone := newLineEncoder(e.pretty, e.color)
	for k, v := range e.Fields {
		clone.Fields[k] = v
	}
	return clone
}

func (e *lineEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	line := bufferPool.Get()
	line.AppendString(ent.Time.UTC().Format(timestampLayout))
	line.AppendByte(' ')
	line.AppendString(e.levelTag(ent.Level))
	line.AppendByte(' ')
	line.AppendString(ent.Message)

	payload := zapcore.NewMapObjectEncoder()
	for k, v := range e.Fields {
		payload.Fields[k] = v
	}
	for _, f := range fields {
		f.AddTo(payload)
	}
	if len(payload.Fields) > 0 {
		line.AppendByte(' ')
		line.AppendString(e.marshal(payload.Fields))
	}

	if ent.Stack != "" {
		line.AppendByte('\n')
		line.AppendString(ent.Stack)
	}
	line.AppendString(zapcore.DefaultLineEnding)
	return line, nil
}

func (e *lineEncoder) levelTag(l zapcore.Level) string {
	tag := "[" + l.CapitalString() + "]"
	if !e.color {
		return tag
	}
	if c, ok := levelColors[l]; ok {
		return c + tag + colorReset
	}
	return tag
}

func (e *lineEncoder) marshal(data map[string]any) string {
	var out bytes.Buffer
	enc := json.NewEncoder(&out)
	enc.SetEscapeHTML(false)
	if e.pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(data); err != nil {
		return fmt.Sprint(data)
	}
	return string(bytes.TrimRight(out.Bytes(), "\n"))
}
