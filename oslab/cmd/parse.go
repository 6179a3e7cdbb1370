package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/oslab/banker"
	"github.com/sarchlab/oslab/cpu"
)

var errBadArgument = errors.New("bad argument")

func atoi(field, s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not an integer",
			errBadArgument, field, s)
	}

	return v, nil
}

// parseProcess reads "id:arrival:burst[:priority]".
func parseProcess(s string) (cpu.Process, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 && len(parts) != 4 {
		return cpu.Process{}, fmt.Errorf(
			"%w: process %q must be id:arrival:burst[:priority]",
			errBadArgument, s)
	}

	names := []string{"id", "arrival", "burst", "priority"}
	values := make([]int, 4)

	for i, part := range parts {
		v, err := atoi(names[i], part)
		if err != nil {
			return cpu.Process{}, err
		}

		values[i] = v
	}

	return cpu.Process{
		ID:          values[0],
		ArrivalTime: values[1],
		BurstTime:   values[2],
		Priority:    values[3],
	}, nil
}

// parseVector reads "a,b,c".
func parseVector(s string) (banker.Vector, error) {
	parts := strings.Split(s, ",")
	v := make(banker.Vector, 0, len(parts))

	for _, part := range parts {
		n, err := atoi("resource", part)
		if err != nil {
			return nil, err
		}

		v = append(v, n)
	}

	return v, nil
}

// parseClaim reads "id:allocation:maximum", e.g. "0:0,1,0:7,5,3".
func parseClaim(s string) (banker.Claim, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return banker.Claim{}, fmt.Errorf(
			"%w: claim %q must be id:a,b,c:a,b,c", errBadArgument, s)
	}

	id, err := atoi("id", parts[0])
	if err != nil {
		return banker.Claim{}, err
	}

	alloc, err := parseVector(parts[1])
	if err != nil {
		return banker.Claim{}, err
	}

	maximum, err := parseVector(parts[2])
	if err != nil {
		return banker.Claim{}, err
	}

	return banker.Claim{ID: id, Allocation: alloc, Maximum: maximum}, nil
}

// parseRequest reads "id:a,b,c".
func parseRequest(s string) (int, banker.Vector, error) {
	id, vec, ok := strings.Cut(s, ":")
	if !ok {
		return 0, nil, fmt.Errorf(
			"%w: request %q must be id:a,b,c", errBadArgument, s)
	}

	n, err := atoi("id", id)
	if err != nil {
		return 0, nil, err
	}

	v, err := parseVector(vec)
	if err != nil {
		return 0, nil, err
	}

	return n, v, nil
}
