package content

import "testing"

func TestRenderUnknownKindFallsBackToPlaceholder(t *testing.T) {
	r := NewRegistry(nil)
	if got := r.Render(Ref{Kind: "chat"}); got != "[chat]" {
		t.Fatalf("expected placeholder, got %q", got)
	}
}

func TestRenderEmptyKind(t *testing.T) {
	r := NewRegistry(nil)
	if got := r.Render(Ref{}); got != "" {
		t.Fatalf("expected empty body, got %q", got)
	}
}

func TestRegisterAndRender(t *testing.T) {
	var gotState map[string]any
	r := NewRegistry(func(state map[string]any) { gotState = state })
	r.Register("chat", func(ref Ref, update UpdateFunc) string {
		update(map[string]any{"opened": true})
		return "chat: " + ref.Props["title"].(string)
	})

	out := r.Render(Ref{Kind: "chat", Props: map[string]any{"title": "scout"}})
	if out != "chat: scout" {
		t.Fatalf("unexpected render output %q", out)
	}
	if gotState == nil || gotState["opened"] != true {
		t.Fatalf("update callback not plumbed through, got %v", gotState)
	}
}

func TestKindsSorted(t *testing.T) {
	r := NewRegistry(nil)
	r.Register("workflow", nil)
	r.Register("chat", nil)
	kinds := r.Kinds()
	if len(kinds) != 2 || kinds[0] != "chat" || kinds[1] != "workflow" {
		t.Fatalf("unexpected kinds %v", kinds)
	}
}
