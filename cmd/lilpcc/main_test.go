package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/lilpcc/compiler/back"
)

func writeSource(t *testing.T, dir, text string) string {
	t.Helper()

	name := filepath.Join(dir, "prog.yaml")

	err := os.WriteFile(name, []byte(text), 0o644)
	require.NoError(t, err)

	return name
}

func TestCompileToStdout(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "functions:\n  - name: main\n    body:\n      - return: {imm: 1}\n")

	var buf bytes.Buffer

	err := compileTo(context.Background(), &buf, back.New(), src, "-")
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "j       main\n")
	assert.Contains(t, buf.String(), "li      $t0, 1\n")

	_, err = os.Stat(filepath.Join(dir, "-"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCompileToFile(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "functions:\n  - name: main\n    body:\n      - return: {imm: 1}\n")
	out := filepath.Join(dir, "out.asm")

	var buf bytes.Buffer

	err := compileTo(context.Background(), &buf, back.New(), src, out)
	require.NoError(t, err)
	assert.Zero(t, buf.Len())

	obj, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(obj), "main:\n")
}

func TestCompileToUnboundWritesNothing(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "functions:\n  - name: main\n    body:\n      - return: {ref: y}\n")
	out := filepath.Join(dir, "out.asm")

	var buf bytes.Buffer

	err := compileTo(context.Background(), &buf, back.New(), src, out)

	var ue back.UnboundVariableError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "y", ue.Name)

	_, err = os.Stat(out)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Zero(t, buf.Len())
}
