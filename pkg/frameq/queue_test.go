package frameq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueueCoalescesLatestWins(t *testing.T) {
	q := NewQueue[string]()
	var got []int
	q.Request("a", func() { got = append(got, 1) })
	q.Request("a", func() { got = append(got, 2) })
	q.Request("a", func() { got = append(got, 3) })

	assert.Equal(t, 1, q.Pending())
	assert.Equal(t, 1, q.Flush())
	assert.Equal(t, []int{3}, got, "only the most recent request runs")
	assert.Equal(t, 0, q.Pending())
}

func TestQueueFlushOrderIsRequestOrder(t *testing.T) {
	q := NewQueue[string]()
	var got []string
	q.Request("a", func() { got = append(got, "a") })
	q.Request("b", func() { got = append(got, "b") })
	q.Request("a", func() { got = append(got, "a") }) // keeps slot

	q.Flush()
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestQueueCancel(t *testing.T) {
	q := NewQueue[string]()
	ran := false
	q.Request("a", func() { ran = true })
	assert.True(t, q.Cancel("a"))
	assert.False(t, q.Cancel("a"))
	assert.Equal(t, 0, q.Flush())
	assert.False(t, ran)
}

func TestQueueBudgetChunksWork(t *testing.T) {
	q := NewQueue[int]()
	q.SetBudget(2)
	var got []int
	for i := 0; i < 5; i++ {
		i := i
		q.Request(i, func() { got = append(got, i) })
	}

	assert.Equal(t, 2, q.Flush())
	assert.Equal(t, []int{0, 1}, got)
	assert.Equal(t, 3, q.Pending())

	assert.Equal(t, 2, q.Flush())
	assert.Equal(t, 1, q.Flush())
	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
	assert.Equal(t, 0, q.Pending())
}

func TestQueueRequestDuringFlushDeferred(t *testing.T) {
	q := NewQueue[string]()
	runs := 0
	q.Request("a", func() {
		runs++
		if runs == 1 {
			q.Request("a", func() { runs++ })
		}
	})

	assert.Equal(t, 1, q.Flush(), "re-request must not run in the same flush")
	assert.Equal(t, 1, runs)
	assert.Equal(t, 1, q.Flush())
	assert.Equal(t, 2, runs)
}

func TestQueueMidFlushRequestSupersedesLaterPending(t *testing.T) {
	q := NewQueue[string]()
	var got []string
	q.Request("a", func() {
		got = append(got, "a")
		q.Request("b", func() { got = append(got, "b-new") })
	})
	q.Request("b", func() { got = append(got, "b-old") })

	assert.Equal(t, 2, q.Flush())
	assert.Equal(t, []string{"a", "b-new"}, got,
		"a task still pending in this flush is superseded in place")
	assert.Equal(t, 0, q.Pending())
}
