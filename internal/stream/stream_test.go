package stream

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/five82/brandloom/internal/api"
	"github.com/five82/brandloom/internal/model"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Event
	}{
		{
			name: "theme option",
			data: `{"type":"theme_option","index":1,"total":5,"theme":{"name":"Bold","colors":["#000"],"caption_length":"short","use_emojis":true,"image_url":"a.png"}}`,
			want: ThemeOptionEvent{Index: 1, Total: 5},
		},
		{
			name: "post",
			data: `{"type":"post","index":2,"total":3,"post":{"id":"p2","theme_id":"t1","post_type":"Emotional","status":"draft"}}`,
			want: PostEvent{Index: 2, Total: 3},
		},
		{name: "complete options", data: `{"type":"complete","total_options":5}`, want: CompleteEvent{Total: 5}},
		{name: "complete posts", data: `{"type":"complete","total_posts":9}`, want: CompleteEvent{Total: 9}},
		{name: "typed error", data: `{"type":"error","message":"quota exceeded"}`, want: ErrorEvent{Message: "quota exceeded"}},
		{name: "typed error without message", data: `{"type":"error"}`, want: ErrorEvent{Message: "generation failed"}},
		{name: "bare error field", data: `{"error":"backend down"}`, want: ErrorEvent{Message: "backend down"}},
		{name: "error field on post", data: `{"type":"post","post":{"id":"p1"},"error":"image failed"}`, want: ErrorEvent{Message: "image failed"}},
		{name: "error field on complete", data: `{"type":"complete","total_posts":2,"error":"partial"}`, want: ErrorEvent{Message: "partial"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.data))
			if err != nil {
				t.Fatalf("Decode returned error: %v", err)
			}
			switch want := tt.want.(type) {
			case ThemeOptionEvent:
				ev, ok := got.(ThemeOptionEvent)
				if !ok {
					t.Fatalf("Decode = %T, want ThemeOptionEvent", got)
				}
				if ev.Index != want.Index || ev.Total != want.Total {
					t.Fatalf("index/total = %d/%d, want %d/%d", ev.Index, ev.Total, want.Index, want.Total)
				}
				if ev.Option.Name != "Bold" || ev.Option.CaptionLength != model.CaptionShort || ev.Option.ImageURL != "a.png" {
					t.Fatalf("option = %#v, want converted theme", ev.Option)
				}
			case PostEvent:
				ev, ok := got.(PostEvent)
				if !ok {
					t.Fatalf("Decode = %T, want PostEvent", got)
				}
				if ev.Post.ID != "p2" || ev.Post.ThemeID != "t1" || ev.Post.PostType != model.PostEmotional {
					t.Fatalf("post = %#v, want p2 in t1", ev.Post)
				}
				if ev.Index != want.Index || ev.Total != want.Total {
					t.Fatalf("index/total = %d/%d, want %d/%d", ev.Index, ev.Total, want.Index, want.Total)
				}
			default:
				if got != tt.want {
					t.Fatalf("Decode = %#v, want %#v", got, tt.want)
				}
			}
		})
	}
}

func TestDecodeRejectsUnknownAndMalformed(t *testing.T) {
	for _, data := range []string{
		`{"type":"progress"}`,
		`{"index":1}`,
		`{"type":"post"}`,
		`not json`,
	} {
		_, err := Decode([]byte(data))
		var pe *ProtocolError
		if !errors.As(err, &pe) {
			t.Fatalf("Decode(%s) error = %v, want *ProtocolError", data, err)
		}
		if !errors.Is(err, api.ErrProtocol) {
			t.Fatalf("Decode(%s) error = %v, want ErrProtocol", data, err)
		}
	}
}

func TestReaderSplitsFrames(t *testing.T) {
	body := ": keep-alive\n" +
		"event: message\n" +
		"data: {\"a\":1}\n\n" +
		"id: 7\r\n" +
		"data:{\"b\":\r\n" +
		"data: 2}\r\n\r\n" +
		"\n\n" +
		"data: {\"dangling\":true}\n"

	r := NewReader(strings.NewReader(body))
	var got []string
	for {
		data, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
		got = append(got, string(data))
	}
	want := []string{`{"a":1}`, "{\"b\":\n2}"}
	if len(got) != len(want) {
		t.Fatalf("frames = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("frame %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPumpStopsWhenHandlerReturnsFalse(t *testing.T) {
	body := io.NopCloser(strings.NewReader(
		"data: {\"type\":\"theme_option\",\"theme\":{\"name\":\"A\"}}\n\n" +
			"data: {\"type\":\"complete\",\"total_options\":1}\n\n" +
			"data: {\"type\":\"theme_option\",\"theme\":{\"name\":\"late\"}}\n\n",
	))
	var seen []Event
	err := Pump(context.Background(), body, func(ev Event) bool {
		seen = append(seen, ev)
		_, done := ev.(CompleteEvent)
		return !done
	})
	if err != nil {
		t.Fatalf("Pump returned error: %v", err)
	}
	if len(seen) != 2 {
		t.Fatalf("events = %d, want 2", len(seen))
	}
}

func TestPumpReportsProtocolError(t *testing.T) {
	body := io.NopCloser(strings.NewReader("data: {\"type\":\"bogus\"}\n\n"))
	err := Pump(context.Background(), body, func(Event) bool { return true })
	var pe *ProtocolError
	if !errors.As(err, &pe) || pe.Type != "bogus" {
		t.Fatalf("Pump error = %v, want protocol error for bogus", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }
func (failingReader) Close() error             { return nil }

func TestPumpWrapsReadFailures(t *testing.T) {
	err := Pump(context.Background(), failingReader{}, func(Event) bool { return true })
	if !errors.Is(err, api.ErrTransport) {
		t.Fatalf("Pump error = %v, want ErrTransport", err)
	}
}

type blockingBody struct {
	closed chan struct{}
}

func (b *blockingBody) Read([]byte) (int, error) {
	<-b.closed
	return 0, errors.New("use of closed body")
}

func (b *blockingBody) Close() error {
	select {
	case <-b.closed:
	default:
		close(b.closed)
	}
	return nil
}

func TestPumpClosesBodyOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	body := &blockingBody{closed: make(chan struct{})}
	done := make(chan error, 1)
	go func() {
		done <- Pump(ctx, body, func(Event) bool { return true })
	}()
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Pump error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Pump did not return after cancel")
	}
}

func TestRegistryCancelAndReplace(t *testing.T) {
	var r Registry
	first := r.Start(context.Background(), Posts, "t1")
	other := r.Start(context.Background(), ThemeOptions, "b1")
	second := r.Start(context.Background(), Posts, "t2")

	if !first.Closed() {
		t.Fatal("first posts handle still open after replacement")
	}
	if r.Current(first) {
		t.Fatal("Current(first) = true, want false")
	}
	if !r.Current(second) || !r.Current(other) {
		t.Fatal("replacement or other-kind handle not current")
	}
	if second.ID() == first.ID() {
		t.Fatalf("handle ids collide: %d", second.ID())
	}
	if r.Finish(first) {
		t.Fatal("Finish(first) = true, want false for superseded handle")
	}
	if r.Active(Posts) != second {
		t.Fatal("Finish of superseded handle removed the active one")
	}
	if !r.Finish(second) || r.Active(Posts) != nil {
		t.Fatal("Finish(second) did not clear the active posts handle")
	}

	r.CancelAll()
	if !other.Closed() || r.Active(ThemeOptions) != nil {
		t.Fatal("CancelAll left a handle open")
	}
}

func TestRegistryCancel(t *testing.T) {
	var r Registry
	if r.Cancel(ThemeImages) {
		t.Fatal("Cancel with nothing active = true, want false")
	}
	g := r.Start(context.Background(), ThemeImages, "b1")
	if !r.Cancel(ThemeImages) || !g.Closed() {
		t.Fatal("Cancel did not close the active handle")
	}
	select {
	case <-g.Context().Done():
	default:
		t.Fatal("handle context not done after Cancel")
	}
}
