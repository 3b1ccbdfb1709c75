package recommend

import (
	"coursehub_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixedRand struct {
	n    int
	seen int
}

func (f *fixedRand) IntN(n int) int {
	f.seen = n
	return f.n
}

func courses(ids ...string) []model.Course {
	out := make([]model.Course, 0, len(ids))
	for _, id := range ids {
		c := model.Course{Title: "course " + id}
		c.ID = id
		out = append(out, c)
	}
	return out
}

func TestPickSkipsCompleted(t *testing.T) {
	rng := &fixedRand{n: 1}

	got, ok := Pick(courses("a", "b", "c", "d"), []string{"b"}, rng)
	assert.True(t, ok)
	assert.Equal(t, "c", got.ID)
	assert.Equal(t, 3, rng.seen)
}

func TestPickNothingLeft(t *testing.T) {
	_, ok := Pick(courses("a", "b"), []string{"a", "b"}, &fixedRand{})
	assert.False(t, ok)

	_, ok = Pick(nil, nil, nil)
	assert.False(t, ok)
}

func TestPickDefaultRand(t *testing.T) {
	all := courses("a", "b", "c")
	for i := 0; i < 20; i++ {
		got, ok := Pick(all, []string{"a"}, nil)
		assert.True(t, ok)
		assert.NotEqual(t, "a", got.ID)
	}
}
