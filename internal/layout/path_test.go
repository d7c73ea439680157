package layout

import (
	"reflect"
	"sync"
	"testing"

	"github.com/fragmede/forumview/internal/thread"
)

func samplePost(t *testing.T) *thread.PostData {
	t.Helper()
	return &thread.PostData{
		ID:    100,
		Title: "sample",
		Comments: forest(t,
			[2]int{1, 0}, [2]int{2, 1}, [2]int{3, 2}, [2]int{4, 2}, [2]int{5, 4},
			[2]int{6, 0}, [2]int{7, 6}, [2]int{8, 6},
		),
	}
}

func TestFindByPathRoot(t *testing.T) {
	root := samplePost(t).Comments[0]
	n, ok := FindByPath(root, root.Path())
	if !ok || n != root {
		t.Errorf("FindByPath(root, root.Path()) = %v, %v; want root", n, ok)
	}
}

func TestFindByPathWrongFirstID(t *testing.T) {
	root := samplePost(t).Comments[0]
	for _, path := range [][]int{{6}, {2}, {99, 2}, {}, nil} {
		if n, ok := FindByPath(root, path); ok || n != nil {
			t.Errorf("FindByPath(%v) = %v, %v; want not found", path, n, ok)
		}
	}
}

func TestFindByPathMissingStep(t *testing.T) {
	root := samplePost(t).Comments[0]
	if _, ok := FindByPath(root, []int{1, 2, 9}); ok {
		t.Error("FindByPath found a node for a missing id")
	}
	// 5 exists but is not a direct child of 2.
	if _, ok := FindByPath(root, []int{1, 2, 5}); ok {
		t.Error("FindByPath skipped a level")
	}
}

func TestFindByPathRoundTrip(t *testing.T) {
	post := samplePost(t)
	count := 0
	post.Walk(func(n *thread.CommentNode) {
		count++
		got, ok := Find(post, n.Path())
		if !ok || got != n {
			t.Errorf("Find(%v) = %v, %v; want the node", n.Path(), got, ok)
		}
	})
	if count != 8 {
		t.Errorf("walked %d nodes, want 8", count)
	}
}

func TestPrepareDisplayItemsWholeTopic(t *testing.T) {
	want := []row{{0, Reply, 1}, {0, Reply, 6}}
	if got := rows(PrepareDisplayItems(samplePost(t), nil)); !reflect.DeepEqual(got, want) {
		t.Errorf("PrepareDisplayItems = %v, want %v", got, want)
	}
}

func TestPrepareDisplayItemsFromPath(t *testing.T) {
	post := samplePost(t)
	want := []row{
		{0, Top, 1},
		{0, ReplyInStaircase, 2},
		{1, Reply, 3},
		{1, Reply, 4},
	}
	if got := rows(PrepareDisplayItems(post, []int{1})); !reflect.DeepEqual(got, want) {
		t.Errorf("PrepareDisplayItems([1]) = %v, want %v", got, want)
	}

	want = []row{{0, Top, 4}, {0, ReplyInStaircase, 5}}
	if got := rows(PrepareDisplayItems(post, []int{1, 2, 4})); !reflect.DeepEqual(got, want) {
		t.Errorf("PrepareDisplayItems([1 2 4]) = %v, want %v", got, want)
	}

	want = []row{{0, Top, 6}, {1, Reply, 7}, {1, Reply, 8}}
	if got := rows(PrepareDisplayItems(post, []int{6})); !reflect.DeepEqual(got, want) {
		t.Errorf("PrepareDisplayItems([6]) = %v, want %v", got, want)
	}
}

func TestPrepareDisplayItemsNoMatch(t *testing.T) {
	if got := PrepareDisplayItems(samplePost(t), []int{42}); got != nil {
		t.Errorf("PrepareDisplayItems([42]) = %v, want nil", got)
	}
	if got := PrepareDisplayItems(nil, nil); got != nil {
		t.Errorf("PrepareDisplayItems(nil) = %v, want nil", got)
	}
}

func TestConcurrentReaders(t *testing.T) {
	post := samplePost(t)
	want := rows(PrepareDisplayItems(post, []int{1, 2}))
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := rows(PrepareDisplayItems(post, []int{1, 2})); !reflect.DeepEqual(got, want) {
				t.Errorf("concurrent layout = %v, want %v", got, want)
			}
		}()
	}
	wg.Wait()
}
