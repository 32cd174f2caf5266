package harness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wavesplatform/everybit/pkg/bitarray"
)

const sampleScript = `
# rotations of a single byte
t 0
n 10010110
r 0 8 -1
e 01001011

t 1
n 10010110
r 2 5 2
e 11010010
r 2 5 -2
e 10010110

t 7
n 111111101111111
r 0 15 -1
e 111111110111111
`

func TestParseScript(t *testing.T) {
	cases, err := ParseScript(strings.NewReader(sampleScript))
	require.NoError(t, err)
	require.Len(t, cases, 3)

	assert.Equal(t, 0, cases[0].ID)
	assert.Equal(t, 3, cases[0].Line)
	require.Len(t, cases[0].Steps, 3)
	assert.Equal(t, StepLoad, cases[0].Steps[0].Kind)
	assert.True(t, cases[0].Steps[0].Bits.Equal(bitarray.FromByte(0b10010110)))
	assert.Equal(t, Step{Line: 5, Kind: StepRotate, Offset: 0, Length: 8, Amount: -1}, cases[0].Steps[1])
	assert.Equal(t, StepExpect, cases[0].Steps[2].Kind)

	assert.Equal(t, 1, cases[1].ID)
	require.Len(t, cases[1].Steps, 5)
	assert.Equal(t, 7, cases[2].ID)
	require.Len(t, cases[2].Steps, 3)
}

func TestParseScriptErrors(t *testing.T) {
	for _, test := range []struct {
		name   string
		script string
		msg    string
	}{
		{"outside of case", "n 0101", "line 1: instruction outside of a test case"},
		{"unknown instruction", "t 0\nx 1", "line 2: unknown instruction \"x\""},
		{"long instruction", "t 0\nrot 1 2 3", "line 2: unknown instruction \"rot\""},
		{"bad id", "t -1", "line 1: invalid test id \"-1\""},
		{"duplicate id", "t 1\n\nt 1", "line 3: test 1 is already defined on line 1"},
		{"missing args", "t 0\nr 1 2", "line 2: instruction 'r' expects 3 argument(s), got 2"},
		{"bad bits", "t 0\nn 0120", "line 2: '2' at position 2: invalid bit character"},
		{"bad integer", "t 0\nr 1 two 3", "line 2: argument 2: invalid integer \"two\""},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseScript(strings.NewReader(test.script))
			require.Error(t, err)
			assert.Contains(t, err.Error(), test.msg)
		})
	}
}

func TestParseScriptInvalidBitsWrapped(t *testing.T) {
	_, err := ParseScript(strings.NewReader("t 0\ne 1x"))
	assert.ErrorIs(t, err, bitarray.ErrInvalidBit)
}
