package screenshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue_Push(t *testing.T) {
	q := newQueue(ViewQueue, "/d", 2)

	assert.Nil(t, q.Push("a"))
	assert.Nil(t, q.Push("b"))
	assert.Equal(t, []string{"a"}, q.Push("c"))
	assert.Equal(t, []string{"b", "c"}, q.Items())
	assert.Equal(t, 2, q.Len())
}

func TestQueue_Remove(t *testing.T) {
	q := newQueue(ViewSolutions, "/d", 3)
	q.Push("a")
	q.Push("b")

	assert.True(t, q.Remove("a"))
	assert.False(t, q.Remove("a"))
	assert.False(t, q.Contains("a"))
	assert.True(t, q.Contains("b"))
	assert.Equal(t, []string{"b"}, q.Items())
}

func TestQueue_Reset(t *testing.T) {
	q := newQueue(ViewQueue, "/d", 3)
	q.Push("a")
	q.Push("b")

	assert.Equal(t, []string{"a", "b"}, q.Reset())
	assert.Equal(t, 0, q.Len())
	assert.Empty(t, q.Items())
}

func TestParseView(t *testing.T) {
	tests := []struct {
		in      string
		want    View
		wantErr bool
	}{
		{in: "queue", want: ViewQueue},
		{in: "primary", want: ViewQueue},
		{in: "solutions", want: ViewSolutions},
		{in: "extra", want: ViewSolutions},
		{in: "debug", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseView(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestView_Text(t *testing.T) {
	b, err := ViewSolutions.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "solutions", string(b))

	var v View
	assert.NoError(t, v.UnmarshalText([]byte("queue")))
	assert.Equal(t, ViewQueue, v)
	assert.Error(t, v.UnmarshalText([]byte("nope")))
	assert.Equal(t, "view(7)", View(7).String())
}
