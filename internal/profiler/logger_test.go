package profiler

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kscope-ml/kscope/internal/tensor"
)

func TestConsoleLoggerFormat(t *testing.T) {
	out := mustFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2})
	inputs := map[string]*tensor.RawTensor{
		"b": mustFloat32(t, []float32{5, 6, 7, 8}, tensor.Shape{2, 2}),
		"a": mustFloat32(t, []float32{1, 2, 3, 4}, tensor.Shape{2, 2}),
	}

	var buf bytes.Buffer
	l := NewConsoleLogger(&buf)
	l.LogKernelProfile("Add", out, out.Values(), 0.142, inputs, "gpu dispatch")

	line := strings.TrimSuffix(buf.String(), "\n")
	fields := strings.Split(line, "\t")
	require.Len(t, fields, 6)

	assert.Equal(t, "Add", strings.TrimRight(fields[0], " "))
	assert.Len(t, fields[0], 25, "name column width")

	assert.Equal(t, "0.142ms", strings.TrimRight(fields[1], " "))
	assert.Len(t, fields[1], 9, "time column width")

	assert.Equal(t, "2D [2 2]", strings.TrimRight(fields[2], " "))
	assert.Len(t, fields[2], 14, "shape column width")

	assert.Equal(t, "4", fields[3])
	assert.Equal(t, "a: 2D [2 2] b: 2D [2 2]", fields[4], "inputs sorted by name")
	assert.Equal(t, "gpu dispatch", fields[5])
}

func TestConsoleLoggerLongNameOverflows(t *testing.T) {
	out := mustFloat32(t, []float32{1}, tensor.Shape{1})

	var buf bytes.Buffer
	l := NewConsoleLogger(&buf)
	name := "FusedBatchNormGradV3WithActivation"
	l.LogKernelProfile(name, out, out.Values(), 12.5, nil, "")

	fields := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\t")
	require.Len(t, fields, 6)
	assert.Equal(t, name, fields[0], "long names are not truncated")
	assert.Equal(t, "", fields[4], "no inputs yields empty description")
}

func TestConsoleLoggerScalarOutput(t *testing.T) {
	scalar, err := tensor.NewRaw(tensor.Shape{}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	var buf bytes.Buffer
	l := NewConsoleLogger(&buf)
	l.LogKernelProfile("Sum", scalar, scalar.Values(), 1.0, nil, "")

	fields := strings.Split(buf.String(), "\t")
	assert.Equal(t, "0D []", strings.TrimRight(fields[2], " "))
	assert.Equal(t, "1", fields[3], "scalar has one element")
}
