package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []string
		want  string
	}{
		{name: "empty", items: nil, want: "[]"},
		{name: "single", items: []string{"/var/data1"}, want: "['/var/data1']"},
		{name: "multiple", items: []string{"/var/data1", "/var/data2"}, want: "['/var/data1', '/var/data2']"},
		{name: "quote is doubled", items: []string{"it's"}, want: "['it''s']"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := listLiteral(tt.items)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMappingLiteral(t *testing.T) {
	t.Parallel()

	got, err := literal(mapping(
		quoted("default"), mapping(quoted("mounts"), sequence([]string{"/m"})),
	))
	require.NoError(t, err)
	assert.Equal(t, "{'default': {'mounts': ['/m']}}", got)
}
