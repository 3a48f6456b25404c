package observability

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/graphstream/pkg/graph"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	NoopGraphHooks{}.OnEvent("g", "NODE_ADDED")

	r := NoopReplayHooks{}
	r.OnReplayStart(ctx, "events.jsonl")
	r.OnReplayComplete(ctx, "events.jsonl", 10, time.Second, nil)
	r.OnRenderComplete(ctx, "svg", time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "render")
	c.OnCacheMiss(ctx, "render")
	c.OnCacheSet(ctx, "render", 1024)

	NoopStoreHooks{}.OnStoreOp(ctx, "redis", "append", time.Millisecond, nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Graph().(NoopGraphHooks); !ok {
		t.Error("Graph() should return NoopGraphHooks by default")
	}
	if _, ok := Replay().(NoopReplayHooks); !ok {
		t.Error("Replay() should return NoopReplayHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}

	customReplay := &testReplayHooks{}
	SetReplayHooks(customReplay)
	if Replay() != customReplay {
		t.Error("SetReplayHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	Reset()
	if _, ok := Replay().(NoopReplayHooks); !ok {
		t.Error("Reset() should restore NoopReplayHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testGraphHooks{}
	SetGraphHooks(custom)
	SetGraphHooks(nil)

	if Graph() != custom {
		t.Error("SetGraphHooks(nil) should be ignored")
	}
}

func TestListener(t *testing.T) {
	Reset()
	defer Reset()

	hooks := &testGraphHooks{}
	SetGraphHooks(hooks)

	g := graph.New("g")
	g.AddListener(Listener())
	g.AddNode("A")
	g.Node("A").SetAttribute("x", graph.Number(1))
	g.StepBegins(1)

	want := []string{"NODE_ADDED", "ATTRIBUTE_CHANGED", "STEP"}
	if len(hooks.kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", hooks.kinds, want)
	}
	for i := range want {
		if hooks.kinds[i] != want[i] || hooks.sources[i] != "g" {
			t.Errorf("event %d = %s from %s", i, hooks.kinds[i], hooks.sources[i])
		}
	}
}

type testGraphHooks struct {
	sources, kinds []string
}

func (h *testGraphHooks) OnEvent(source, kind string) {
	h.sources = append(h.sources, source)
	h.kinds = append(h.kinds, kind)
}

type testReplayHooks struct{ NoopReplayHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testStoreHooks struct{ NoopStoreHooks }
