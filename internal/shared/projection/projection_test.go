package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testUser struct {
	ID       uint
	Email    string
	Password string
	Admin    bool
}

func TestProjection_Apply(t *testing.T) {
	user := &testUser{ID: 1, Email: "test@example.com", Password: "salt.hash", Admin: true}

	t.Run("only whitelisted fields are exposed", func(t *testing.T) {
		p := New("id", "email")
		got := p.Apply(user)

		assert.Equal(t, map[string]any{"id": uint(1), "email": "test@example.com"}, got)
		assert.NotContains(t, got, "password")
		assert.NotContains(t, got, "admin")
	})

	t.Run("field names match case-insensitively", func(t *testing.T) {
		p := New("ID", "Email")
		got := p.Apply(user)

		assert.Equal(t, uint(1), got["ID"])
		assert.Equal(t, "test@example.com", got["Email"])
	})

	t.Run("unknown names are omitted", func(t *testing.T) {
		p := New("id", "nonexistent")
		got := p.Apply(user)

		assert.Equal(t, map[string]any{"id": uint(1)}, got)
	})

	t.Run("value instead of pointer", func(t *testing.T) {
		p := New("email")
		got := p.Apply(*user)

		assert.Equal(t, map[string]any{"email": "test@example.com"}, got)
	})

	t.Run("nil pointer yields empty map", func(t *testing.T) {
		p := New("id", "email")
		var nothing *testUser

		assert.Empty(t, p.Apply(nothing))
	})

	t.Run("non-struct yields empty map", func(t *testing.T) {
		p := New("id")

		assert.Empty(t, p.Apply("just a string"))
	})
}

func TestProjection_ApplyAll(t *testing.T) {
	users := []testUser{
		{ID: 1, Email: "a@x.com", Password: "s1.h1"},
		{ID: 2, Email: "b@x.com", Password: "s2.h2"},
	}

	p := New("id", "email")
	got := p.ApplyAll(users)

	assert.Len(t, got, 2)
	assert.Equal(t, map[string]any{"id": uint(1), "email": "a@x.com"}, got[0])
	assert.Equal(t, map[string]any{"id": uint(2), "email": "b@x.com"}, got[1])
}

func TestProjection_Fields(t *testing.T) {
	p := New("id", "email")

	fields := p.Fields()
	assert.Equal(t, []string{"id", "email"}, fields)

	// Mutating the returned slice must not affect the projection.
	fields[0] = "password"
	assert.Equal(t, []string{"id", "email"}, p.Fields())
}
