package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRename_SinglePass(t *testing.T) {
	table := map[string]string{
		"a": "b",
		"b": "c",
	}
	p := Properties{"a": "1", "x": "keep"}

	rename(p, table)

	assert.Equal(t, Properties{"b": "1", "x": "keep"}, p)
}

func TestRename_SwapsWithoutChaining(t *testing.T) {
	table := map[string]string{
		"a": "b",
		"b": "c",
	}
	p := Properties{"a": "1", "b": "2"}

	rename(p, table)

	assert.Equal(t, Properties{"b": "1", "c": "2"}, p)
}

func TestRenameTable_Disjoint(t *testing.T) {
	for from, to := range renameTable {
		_, chained := renameTable[to]
		assert.Falsef(t, chained, "%s -> %s chains into another rename", from, to)
	}
}
