package dispatch_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/eventflow/core/dispatch"
)

type UserCreated struct {
	Email string
}

type OrderPlaced struct {
	ID    int
	Total float64
}

var errBoom = errors.New("boom")

func TestRaise(t *testing.T) {
	t.Parallel()

	t.Run("delivers to handlers in subscription order", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		var got []string
		dispatch.Subscribe(d, dispatch.Func(func(int) { got = append(got, "first") }))
		dispatch.Subscribe(d, dispatch.Func(func(int) { got = append(got, "second") }))
		dispatch.Subscribe(d, dispatch.Func(func(int) { got = append(got, "third") }))

		require.NoError(t, dispatch.Raise(d, 1))
		assert.Equal(t, []string{"first", "second", "third"}, got)
	})

	t.Run("delivers events in raise order", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		var got []int
		dispatch.Subscribe(d, dispatch.Func(func(n int) { got = append(got, n) }))

		for i := 1; i <= 5; i++ {
			require.NoError(t, dispatch.Raise(d, i))
		}
		assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	})

	t.Run("runs conditional then value-keyed then general handlers", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		var got []string
		dispatch.Subscribe(d, dispatch.Func(func(int) { got = append(got, "general") }))
		dispatch.SubscribeValue(d, 5, dispatch.Func(func(int) { got = append(got, "value") }))
		dispatch.SubscribeWhen(d,
			func(n int) bool { return n > 0 },
			dispatch.Func(func(int) { got = append(got, "conditional") }),
		)

		require.NoError(t, dispatch.Raise(d, 5))
		assert.Equal(t, []string{"conditional", "value", "general"}, got)
	})

	t.Run("predicate filters events", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		var got []int
		dispatch.SubscribeWhen(d,
			func(n int) bool { return n%2 == 0 },
			dispatch.Func(func(n int) { got = append(got, n) }),
		)

		for _, n := range []int{1, 2, 3, 4} {
			require.NoError(t, dispatch.Raise(d, n))
		}
		assert.Equal(t, []int{2, 4}, got)
	})

	t.Run("value-keyed handler matches only equal values", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		var got []int
		dispatch.SubscribeValue(d, 69, dispatch.Func(func(n int) { got = append(got, n) }))

		for _, n := range []int{68, 69, 70} {
			require.NoError(t, dispatch.Raise(d, n))
		}
		assert.Equal(t, []int{69}, got)
	})

	t.Run("value-keyed matching uses equality, not identity", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		calls := 0
		dispatch.SubscribeValue(d, UserCreated{Email: "a@example.com"}, dispatch.Func(func(UserCreated) { calls++ }))

		evt := UserCreated{Email: "a@" + "example.com"}
		require.NoError(t, dispatch.Raise(d, evt))
		require.NoError(t, dispatch.Raise(d, UserCreated{Email: "b@example.com"}))
		assert.Equal(t, 1, calls)
	})

	t.Run("string values", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		var got []string
		dispatch.SubscribeValue(d, "Hello", dispatch.Func(func(s string) { got = append(got, s) }))

		require.NoError(t, dispatch.Raise(d, "Hello"))
		require.NoError(t, dispatch.Raise(d, "World!"))
		assert.Equal(t, []string{"Hello"}, got)
	})

	t.Run("ignores events without handlers", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		called := false
		dispatch.Subscribe(d, dispatch.Func(func(string) { called = true }))

		assert.NoError(t, dispatch.Raise(d, 42))
		assert.NoError(t, dispatch.Raise(d, OrderPlaced{ID: 1}))
		assert.False(t, called)
	})

	t.Run("event type is the static type argument", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		var got []any
		dispatch.Subscribe(d, dispatch.Func(func(v any) { got = append(got, v) }))

		require.NoError(t, dispatch.Raise(d, 1))
		require.NoError(t, dispatch.Raise[any](d, 2))
		assert.Equal(t, []any{2}, got)
	})

	t.Run("nil interface event reaches handlers as zero value", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		calls := 0
		dispatch.Subscribe(d, dispatch.Func(func(err error) {
			calls++
			assert.NoError(t, err)
		}))

		require.NoError(t, dispatch.Raise[error](d, nil))
		assert.Equal(t, 1, calls)
	})
}

func TestRaise_HandlerFaults(t *testing.T) {
	t.Parallel()

	t.Run("error stops delivery and propagates", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		later := 0
		dispatch.Subscribe(d, func(int) error { return errBoom })
		dispatch.Subscribe(d, dispatch.Func(func(int) { later++ }))

		err := dispatch.Raise(d, 1)
		require.Error(t, err)
		assert.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "dispatch int")
		assert.Equal(t, 0, later)
	})

	t.Run("conditional error prevents general delivery", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		general := 0
		dispatch.Subscribe(d, dispatch.Func(func(int) { general++ }))
		dispatch.SubscribeWhen(d, func(int) bool { return true }, func(int) error { return errBoom })

		assert.ErrorIs(t, dispatch.Raise(d, 1), errBoom)
		assert.Equal(t, 0, general)
	})

	t.Run("panic propagates and registries stay usable", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		panicking := true
		var got []int
		dispatch.Subscribe(d, dispatch.Func(func(n int) {
			if panicking {
				panic("handler failed")
			}
			got = append(got, n)
		}))
		victim := dispatch.Subscribe(d, dispatch.Func(func(n int) { got = append(got, -n) }))

		assert.PanicsWithValue(t, "handler failed", func() {
			_ = dispatch.Raise(d, 1)
		})

		panicking = false
		victim.Unsubscribe()
		require.NoError(t, dispatch.Raise(d, 2))
		assert.Equal(t, []int{2}, got)
		assert.Equal(t, 1, dispatch.Count[int](d))
	})
}

func TestRaise_Reentrancy(t *testing.T) {
	t.Parallel()

	t.Run("handler raises another event", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		var got []string
		dispatch.Subscribe(d, func(n int) error {
			got = append(got, "int before")
			if err := dispatch.Raise(d, fmt.Sprint(n)); err != nil {
				return err
			}
			got = append(got, "int after")
			return nil
		})
		dispatch.Subscribe(d, dispatch.Func(func(s string) { got = append(got, "string "+s) }))

		require.NoError(t, dispatch.Raise(d, 7))
		assert.Equal(t, []string{"int before", "string 7", "int after"}, got)
	})

	t.Run("handler error from nested raise propagates", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		dispatch.Subscribe(d, func(n int) error { return dispatch.Raise(d, "nested") })
		dispatch.Subscribe(d, func(string) error { return errBoom })

		err := dispatch.Raise(d, 1)
		assert.ErrorIs(t, err, errBoom)
		assert.Contains(t, err.Error(), "dispatch string")
	})

	t.Run("handler subscribed during raise skips the current event", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		var late []int
		subscribed := false
		dispatch.Subscribe(d, dispatch.Func(func(int) {
			if subscribed {
				return
			}
			subscribed = true
			dispatch.Subscribe(d, dispatch.Func(func(n int) { late = append(late, n) }))
		}))

		require.NoError(t, dispatch.Raise(d, 1))
		require.NoError(t, dispatch.Raise(d, 2))
		assert.Equal(t, []int{2}, late)
	})

	t.Run("registry created during raise skips the current event", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		var late []int
		subscribed := false
		dispatch.Subscribe(d, dispatch.Func(func(int) {
			if subscribed {
				return
			}
			subscribed = true
			dispatch.SubscribeValue(d, 1, dispatch.Func(func(n int) { late = append(late, n) }))
		}))

		require.NoError(t, dispatch.Raise(d, 1))
		require.NoError(t, dispatch.Raise(d, 1))
		assert.Equal(t, []int{1}, late)
	})
}

func TestRaise_UnsubscribeDuringDelivery(t *testing.T) {
	t.Parallel()

	t.Run("handler releases its own subscription", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		calls, others := 0, 0
		var sub *dispatch.Subscription
		sub = dispatch.Subscribe(d, dispatch.Func(func(int) {
			calls++
			sub.Unsubscribe()
		}))
		dispatch.Subscribe(d, dispatch.Func(func(int) { others++ }))

		require.NoError(t, dispatch.Raise(d, 1))
		require.NoError(t, dispatch.Raise(d, 2))

		assert.Equal(t, 1, calls)
		assert.Equal(t, 2, others)
		assert.False(t, sub.Active())
		assert.Equal(t, 1, dispatch.Count[int](d))
	})

	t.Run("handler releases a later handler", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		var second *dispatch.Subscription
		secondCalls := 0
		dispatch.Subscribe(d, dispatch.Func(func(int) { second.Unsubscribe() }))
		second = dispatch.Subscribe(d, dispatch.Func(func(int) { secondCalls++ }))

		require.NoError(t, dispatch.Raise(d, 1))
		require.NoError(t, dispatch.Raise(d, 2))
		assert.Equal(t, 0, secondCalls)
	})

	t.Run("release inside a nested raise is honoured by the outer one", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		var got []int
		dispatch.Subscribe(d, func(n int) error {
			if n == 1 {
				return dispatch.Raise(d, 2)
			}
			return nil
		})
		var self *dispatch.Subscription
		self = dispatch.Subscribe(d, dispatch.Func(func(n int) {
			got = append(got, n)
			self.Unsubscribe()
		}))

		require.NoError(t, dispatch.Raise(d, 1))
		assert.Equal(t, []int{2}, got)
	})

	t.Run("predicate releasing its registration suppresses the handler", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		calls := 0
		var sub *dispatch.Subscription
		sub = dispatch.SubscribeWhen(d,
			func(int) bool {
				sub.Unsubscribe()
				return true
			},
			dispatch.Func(func(int) { calls++ }),
		)

		require.NoError(t, dispatch.Raise(d, 1))
		require.NoError(t, dispatch.Raise(d, 2))
		assert.Equal(t, 0, calls)
	})

	t.Run("value-keyed handler releases itself and the value is reusable", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		var got []string
		var sub *dispatch.Subscription
		sub = dispatch.SubscribeValue(d, 3, dispatch.Func(func(int) {
			got = append(got, "old")
			sub.Unsubscribe()
		}))

		require.NoError(t, dispatch.Raise(d, 3))
		dispatch.SubscribeValue(d, 3, dispatch.Func(func(int) { got = append(got, "new") }))
		require.NoError(t, dispatch.Raise(d, 3))

		assert.Equal(t, []string{"old", "new"}, got)
		assert.Equal(t, 1, dispatch.Count[int](d))
	})

	t.Run("released before any raise is never invoked", func(t *testing.T) {
		t.Parallel()

		d := dispatch.New()
		calls := 0
		subs := []*dispatch.Subscription{
			dispatch.Subscribe(d, dispatch.Func(func(int) { calls++ })),
			dispatch.SubscribeValue(d, 1, dispatch.Func(func(int) { calls++ })),
			dispatch.SubscribeWhen(d, func(int) bool { return true }, dispatch.Func(func(int) { calls++ })),
		}
		for _, s := range subs {
			s.Unsubscribe()
		}

		require.NoError(t, dispatch.Raise(d, 1))
		assert.Equal(t, 0, calls)
		assert.Equal(t, 0, dispatch.Count[int](d))
	})
}

func TestCount(t *testing.T) {
	t.Parallel()

	d := dispatch.New()
	assert.Equal(t, 0, dispatch.Count[int](d))

	noop := dispatch.Func(func(int) {})
	a := dispatch.Subscribe(d, noop)
	dispatch.SubscribeValue(d, 1, noop)
	dispatch.SubscribeValue(d, 2, noop)
	dispatch.SubscribeWhen(d, func(int) bool { return true }, noop)
	assert.Equal(t, 4, dispatch.Count[int](d))
	assert.Equal(t, 0, dispatch.Count[string](d))

	a.Unsubscribe()
	assert.Equal(t, 3, dispatch.Count[int](d))
}

func TestSubscribe_NilHandler(t *testing.T) {
	t.Parallel()

	d := dispatch.New()

	assert.PanicsWithValue(t, dispatch.ErrNilHandler, func() {
		dispatch.Subscribe[int](d, nil)
	})
	assert.PanicsWithValue(t, dispatch.ErrNilHandler, func() {
		dispatch.SubscribeValue[int](d, 1, nil)
	})
	assert.PanicsWithValue(t, dispatch.ErrNilHandler, func() {
		dispatch.SubscribeWhen(d, nil, dispatch.Func(func(int) {}))
	})
	assert.PanicsWithValue(t, dispatch.ErrNilHandler, func() {
		dispatch.Subscribe(d, dispatch.Func[int](nil))
	})
}
