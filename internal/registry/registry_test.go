package registry

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/navlink/internal/pattern"
	"github.com/vyrodovalexey/navlink/internal/util"
)

func TestRegisterOverwritesByPattern(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Register(Definition{Pattern: "/a", Name: "first"})
	reg.Register(Definition{Pattern: "/a", Name: "second", Priority: 10})

	assert.Equal(t, 1, reg.Len())

	def, ok := reg.Definition("/a")
	require.True(t, ok)
	assert.Equal(t, "second", def.Name)
	assert.Equal(t, 10, def.Priority)
}

func TestRegisterSamePatternDifferentPriority(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Register(Definition{Pattern: "/items/:id", Name: "low", Priority: 0})
	reg.Register(Definition{Pattern: "/items/:id", Name: "high", Priority: 10})

	assert.Equal(t, 1, reg.Len())

	m, ok := reg.Resolve("/items/7")
	require.True(t, ok)
	assert.Equal(t, "high", m.Definition.Name)
	assert.Equal(t, 10, m.Definition.Priority)
}

func TestResolveSpecificityBeatsRegistrationOrder(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Register(Definition{Pattern: "/users/:id", Name: "user"})
	reg.Register(Definition{Pattern: "/users/settings", Name: "settings"})

	m, ok := reg.Resolve("/users/settings")
	require.True(t, ok)
	assert.Equal(t, "settings", m.Definition.Name, "static pattern must beat dynamic")

	m, ok = reg.Resolve("/users/42")
	require.True(t, ok)
	assert.Equal(t, "user", m.Definition.Name)
	id, idOK := m.Params.Int("id")
	require.True(t, idOK)
	assert.Equal(t, int64(42), id)
}

func TestResolvePriorityBeatsSpecificity(t *testing.T) {
	t.Parallel()

	// Register the high-priority wildcard last so insertion order cannot
	// mask a sorting bug.
	reg := New()
	reg.Register(Definition{Pattern: "/promo/summer", Name: "static", Priority: 0})
	reg.Register(Definition{Pattern: "/promo/*", Name: "campaign", Priority: 100})

	m, ok := reg.Resolve("/promo/summer")
	require.True(t, ok)
	assert.Equal(t, "campaign", m.Definition.Name)
}

func TestResolveLexicalTieBreak(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Register(Definition{Pattern: "/b/:x", Name: "b"})
	reg.Register(Definition{Pattern: "/a/:x", Name: "a"})

	all := reg.All()
	require.Len(t, all, 2)
	assert.Equal(t, "/a/:x", all[0].Pattern)
	assert.Equal(t, "/b/:x", all[1].Pattern)
}

func TestResolveMiss(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Register(Definition{Pattern: "/users/:id", Name: "user"})

	m, ok := reg.Resolve("/orders/42")
	assert.False(t, ok)
	assert.Nil(t, m)
}

func TestResolveSkipsInvalidPatterns(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Register(Definition{Pattern: "broken", Name: "broken"})
	reg.Register(Definition{Pattern: "/ok", Name: "ok"})

	assert.Equal(t, 2, reg.Len())

	_, ok := reg.Resolve("/broken")
	assert.False(t, ok)

	m, ok := reg.Resolve("/ok")
	require.True(t, ok)
	assert.Equal(t, "ok", m.Definition.Name)
}

func TestUnregister(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Register(Definition{Pattern: "/users/:id", Name: "user"})

	removed, ok := reg.Unregister("/users/:id")
	require.True(t, ok)
	assert.Equal(t, "user", removed.Name)
	assert.Equal(t, 0, reg.Len())

	_, ok = reg.Unregister("/users/:id")
	assert.False(t, ok)

	_, ok = reg.Resolve("/users/42")
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Register(Definition{Pattern: "/a", Name: "a"})
	reg.Register(Definition{Pattern: "/b", Name: "b"})
	reg.Clear()

	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.All())
}

func TestFindFilters(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Register(Definition{Pattern: "/profile", Name: "profile", RequiresAuth: true})
	reg.Register(Definition{Pattern: "/admin/users", Name: "admin.users", RequiresAuth: true})
	reg.Register(Definition{Pattern: "/home", Name: "home"})

	auth := reg.AuthRequired()
	assert.Len(t, auth, 2)

	admin := reg.WithPrefix("/admin")
	require.Len(t, admin, 1)
	assert.Equal(t, "admin.users", admin[0].Name)

	named := reg.Find(func(d Definition) bool { return d.Name == "home" })
	require.Len(t, named, 1)
	assert.False(t, named[0].RequiresAuth)
}

func TestCreateRoute(t *testing.T) {
	t.Parallel()

	t.Run("default factory", func(t *testing.T) {
		t.Parallel()

		def := Definition{Pattern: "/users/:id", Name: "user"}
		route, err := def.Create(pattern.Params{"id": pattern.Infer("42")})
		require.NoError(t, err)
		assert.Equal(t, "user", route.RouteName())
		id, ok := route.RouteParams().Int("id")
		require.True(t, ok)
		assert.Equal(t, int64(42), id)
	})

	t.Run("factory failure is distinct and catchable", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("bad id")
		def := Definition{
			Pattern: "/users/:id",
			Name:    "user",
			Factory: func(p pattern.Params) (Route, error) {
				return nil, boom
			},
		}

		reg := New()
		reg.Register(def)

		// Resolution still succeeds; only the later factory step fails.
		m, ok := reg.Resolve("/users/42")
		require.True(t, ok)

		_, err := m.Definition.Create(m.Params)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
		var factoryErr *util.FactoryError
		assert.True(t, errors.As(err, &factoryErr))
	})
}

func TestDebugDescription(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Register(Definition{Pattern: "/users/:id", Name: "user"})
	reg.Register(Definition{Pattern: "/users/settings", Name: "settings", RequiresAuth: true})

	dump := reg.DebugDescription()
	assert.Contains(t, dump, "2 route(s)")
	assert.Contains(t, dump, "/users/settings")
	assert.Contains(t, dump, "/users/:id")
	// Resolution order: the static pattern comes first.
	assert.Less(t,
		strings.Index(dump, "/users/settings"),
		strings.Index(dump, "/users/:id"))
}

func TestConcurrentRegisterAndResolve(t *testing.T) {
	t.Parallel()

	reg := New()
	for i := 0; i < 20; i++ {
		reg.Register(Definition{
			Pattern: fmt.Sprintf("/static/%d", i),
			Name:    fmt.Sprintf("static.%d", i),
		})
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				switch i % 4 {
				case 0:
					reg.Register(Definition{
						Pattern:  fmt.Sprintf("/dyn/%d/:id", w),
						Name:     "dyn",
						Priority: i % 3,
					})
				case 1:
					reg.Unregister(fmt.Sprintf("/dyn/%d/:id", w))
				case 2:
					if m, ok := reg.Resolve(fmt.Sprintf("/static/%d", i%20)); ok {
						_ = m.Definition.Name
					}
				default:
					_ = reg.All()
					_ = reg.Len()
				}
			}
		}(w)
	}
	wg.Wait()

	// The static routes were never touched and must all still resolve.
	for i := 0; i < 20; i++ {
		_, ok := reg.Resolve(fmt.Sprintf("/static/%d", i))
		assert.True(t, ok)
	}
}

func TestRegisterAllIsAtomic(t *testing.T) {
	t.Parallel()

	reg := New()
	batch := []Definition{
		{Pattern: "/batch/a", Name: "a"},
		{Pattern: "/batch/b", Name: "b"},
		{Pattern: "/batch/c", Name: "c"},
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			reg.Clear()
			reg.RegisterAll(batch)
		}
	}()

	for i := 0; i < 100; i++ {
		n := reg.Len()
		// Readers see either the whole batch or nothing.
		assert.Contains(t, []int{0, 3}, n)
	}
	<-done
}
