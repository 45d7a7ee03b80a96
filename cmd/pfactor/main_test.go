package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"primenum/pkg/platform/sentinel"
)

func TestFactorValues(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute([]string{"360", "97", "1", "9797"}, &stdout, &stderr)

	assert.Equal(t, sentinel.ExitOK, code)
	assert.Equal(t, "360: 2 2 2 3 3 5\n97: 97\n1:\n9797: 97 101\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestFactorExponents(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := execute([]string{"-e", "360", "1024"}, &stdout, &stderr)

	assert.Equal(t, sentinel.ExitOK, code)
	assert.Equal(t, "360: 2^3 3^2 5\n1024: 2^10\n", stdout.String())
}

func TestFactorWithLoadedPrimes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "primes.bin")
	var data []byte
	for _, v := range []uint64{2, 3, 5, 7, 11, 13} {
		data = binary.NativeEndian.AppendUint64(data, v)
	}
	require.NoError(t, os.WriteFile(path, data, 0o644))

	var stdout, stderr bytes.Buffer
	code := execute([]string{"-l", path, "143"}, &stdout, &stderr)

	assert.Equal(t, sentinel.ExitOK, code)
	assert.Equal(t, "143: 11 13\n", stdout.String())
}

func TestFactorRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "no values", args: nil},
		{name: "negative", args: []string{"-5"}},
		{name: "not a number", args: []string{"12", "abc"}},
		{name: "zero", args: []string{"0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := execute(tt.args, &stdout, &stderr)
			assert.Equal(t, sentinel.ExitUsage, code)
			assert.Empty(t, stdout.String())
			assert.NotEmpty(t, stderr.String())
		})
	}
}
