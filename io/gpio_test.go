// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package io

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSysfs points SysfsBase at a temporary tree.
func fakeSysfs(t *testing.T) string {
	dir := t.TempDir() + "/"
	old, oldVerify := SysfsBase, Verify
	SysfsBase, Verify = dir, false
	t.Cleanup(func() { SysfsBase, Verify = old, oldVerify })
	return dir
}

func mkPin(t *testing.T, base string, n string) string {
	p := filepath.Join(base, "gpio"+n)
	require.NoError(t, os.MkdirAll(p, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(p, "direction"), []byte("in\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(p, "value"), []byte("0\n"), 0o644))
	return p
}

func readFile(t *testing.T, f string) string {
	b, err := os.ReadFile(f)
	require.NoError(t, err)
	return string(b)
}

func TestOutputPinSkipsExport(t *testing.T) {
	base := fakeSysfs(t)
	p := mkPin(t, base, "7")
	// No export file exists, so an export attempt would fail.
	g, err := OutputPin(7)
	require.NoError(t, err)
	defer g.Close()
	assert.Equal(t, "low\n", readFile(t, filepath.Join(p, "direction")))
	_, err = os.Stat(filepath.Join(base, "export"))
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 7, g.Number())
}

func TestOutputPinExports(t *testing.T) {
	base := fakeSysfs(t)
	require.NoError(t, os.WriteFile(filepath.Join(base, "export"), nil, 0o644))
	// Nothing creates the gpio node, so the direction write fails after export.
	_, err := OutputPin(27)
	require.Error(t, err)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "open", ioErr.Op)
	assert.Equal(t, filepath.Join(base, "gpio27", "direction"), filepath.Clean(ioErr.Path))
	assert.Equal(t, "27\n", readFile(t, filepath.Join(base, "export")))
}

func TestOutputPinExportFailure(t *testing.T) {
	fakeSysfs(t)
	_, err := OutputPin(7)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "export", ioErr.Op)
	assert.Contains(t, err.Error(), "export('")
}

func TestGpioSet(t *testing.T) {
	base := fakeSysfs(t)
	p := mkPin(t, base, "4")
	g, err := OutputPin(4)
	require.NoError(t, err)
	defer g.Close()
	value := filepath.Join(p, "value")
	require.NoError(t, g.Set(1))
	assert.Equal(t, "1\n", readFile(t, value))
	require.NoError(t, g.Set(0))
	assert.Equal(t, "0\n", readFile(t, value))
	assert.Error(t, g.Set(2))
}

func TestGpioSetAfterClose(t *testing.T) {
	base := fakeSysfs(t)
	mkPin(t, base, "5")
	g, err := OutputPin(5)
	require.NoError(t, err)
	g.Close()
	err = g.Set(1)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)
}
