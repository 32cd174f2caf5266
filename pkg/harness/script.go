package harness

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/ccoveille/go-safecast"
	"github.com/pkg/errors"

	"github.com/wavesplatform/everybit/pkg/bitarray"
)

type StepKind byte

const (
	StepLoad   StepKind = 'n'
	StepRotate StepKind = 'r'
	StepExpect StepKind = 'e'
)

// Step is a single script instruction.
// Bits is set for StepLoad and StepExpect, the rotation arguments for StepRotate.
type Step struct {
	Line   int
	Kind   StepKind
	Bits   *bitarray.BitArray
	Offset int
	Length int
	Amount int
}

// Case is a numbered sequence of steps.
type Case struct {
	ID    int
	Line  int
	Steps []Step
}

// ParseScript reads a functional test script.
//
// Script format, one instruction per line:
//
//	t <id>                      start test case <id>
//	n <bits>                    load a new bit array, most significant bit first
//	r <offset> <length> <amount> rotate the subarray right by amount
//	e <bits>                    expect the current array to be equal to bits
//
// Blank lines and lines starting with '#' are ignored.
func ParseScript(r io.Reader) ([]Case, error) {
	var (
		cases []Case
		ids   = make(map[int]int)
	)
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields[0]) != 1 {
			return nil, errors.Errorf("line %d: unknown instruction %q", ln, fields[0])
		}
		args := fields[1:]
		switch kind := fields[0][0]; kind {
		case 't':
			if err := expectArgs(ln, kind, args, 1); err != nil {
				return nil, err
			}
			id, err := strconv.Atoi(args[0])
			if err != nil || id < 0 {
				return nil, errors.Errorf("line %d: invalid test id %q", ln, args[0])
			}
			if prev, ok := ids[id]; ok {
				return nil, errors.Errorf("line %d: test %d is already defined on line %d", ln, id, prev)
			}
			ids[id] = ln
			cases = append(cases, Case{ID: id, Line: ln})
		case byte(StepLoad), byte(StepExpect):
			if len(cases) == 0 {
				return nil, errors.Errorf("line %d: instruction outside of a test case", ln)
			}
			if err := expectArgs(ln, kind, args, 1); err != nil {
				return nil, err
			}
			ba, err := bitarray.Parse(args[0])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d", ln)
			}
			cur := &cases[len(cases)-1]
			cur.Steps = append(cur.Steps, Step{Line: ln, Kind: StepKind(kind), Bits: ba})
		case byte(StepRotate):
			if len(cases) == 0 {
				return nil, errors.Errorf("line %d: instruction outside of a test case", ln)
			}
			if err := expectArgs(ln, kind, args, 3); err != nil {
				return nil, err
			}
			var nums [3]int
			for i, a := range args {
				v, err := parseInt(a)
				if err != nil {
					return nil, errors.Wrapf(err, "line %d: argument %d", ln, i+1)
				}
				nums[i] = v
			}
			cur := &cases[len(cases)-1]
			cur.Steps = append(cur.Steps, Step{
				Line:   ln,
				Kind:   StepRotate,
				Offset: nums[0],
				Length: nums[1],
				Amount: nums[2],
			})
		default:
			return nil, errors.Errorf("line %d: unknown instruction %q", ln, fields[0])
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read script")
	}
	return cases, nil
}

func expectArgs(ln int, kind byte, args []string, n int) error {
	if len(args) != n {
		return errors.Errorf("line %d: instruction '%c' expects %d argument(s), got %d", ln, kind, n, len(args))
	}
	return nil
}

// parseInt parses a decimal integer that must fit into the platform int.
func parseInt(s string) (int, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid integer %q", s)
	}
	i, err := safecast.ToInt(v)
	if err != nil {
		return 0, errors.Wrapf(err, "integer %q is out of range", s)
	}
	return i, nil
}
