package markup

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/fragmede/forumview/internal/styled"
)

const topicPage = `<!DOCTYPE html>
<html><head><title>forum</title></head><body>
<article class="msg topic" data-id="100" data-title="Hello" data-author="alice" data-time="1700000000" data-rating="4">
  <header>alice wrote</header>
  <div class="msg_body"><p>First <b>bold</b> line<br>next</p></div>
</article>
<article class="msg comment" data-id="101" data-parent="0" data-author="bob">
  <div class="msg_body">Reply one</div>
</article>
<article class="msg comment" data-id="102" data-parent="101" data-author="carol">
  <div class="msg_body"><blockquote>Reply one</blockquote>agreed &amp; done</div>
</article>
</body></html>`

func TestTokenizeBalancesEvents(t *testing.T) {
	var depth int
	var opens, closes int
	err := Tokenize(strings.NewReader(`<p>one<br>two<img src="x"><b>open`), func(ev Event) {
		switch ev.(type) {
		case OpenEvent:
			opens++
			depth++
		case CloseEvent:
			closes++
			depth--
		}
		if depth < 0 {
			t.Fatal("close before open")
		}
	})
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if opens != closes {
		t.Errorf("opens = %d, closes = %d", opens, closes)
	}
}

func TestParseDocument(t *testing.T) {
	entries, err := ParseDocument(strings.NewReader(topicPage), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	topic := entries[0].Content.Text
	if topic.String() != "First bold line\nnext" {
		t.Errorf("topic text = %q", topic.String())
	}
	wantTopic := []styled.Range{{Start: 6, End: 10, Kind: styled.Bold}}
	if got := topic.Ranges(); !reflect.DeepEqual(got, wantTopic) {
		t.Errorf("topic ranges = %v, want %v", got, wantTopic)
	}

	reply := entries[2].Content.Text
	if reply.String() != "\nReply one\nagreed & done" {
		t.Errorf("reply text = %q", reply.String())
	}
	wantReply := []styled.Range{{Start: 1, End: 10, Kind: styled.Highlight}}
	if got := reply.Ranges(); !reflect.DeepEqual(got, wantReply) {
		t.Errorf("reply ranges = %v, want %v", got, wantReply)
	}
}

func TestDocument(t *testing.T) {
	entries, err := ParseDocument(strings.NewReader(topicPage), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	post, err := Document(entries)
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	if post.ID != 100 || post.Title != "Hello" || post.Content.Author != "alice" {
		t.Errorf("post = %d %q %q", post.ID, post.Title, post.Content.Author)
	}
	if len(post.Comments) != 1 {
		t.Fatalf("got %d top-level comments, want 1", len(post.Comments))
	}
	top := post.Comments[0]
	if top.ID() != 101 || top.DeepChildCount() != 1 {
		t.Errorf("top = %d with %d descendants", top.ID(), top.DeepChildCount())
	}
	if got := top.Child(0).Path(); !reflect.DeepEqual(got, []int{101, 102}) {
		t.Errorf("reply path = %v, want [101 102]", got)
	}
}

func TestDocumentWithoutTopic(t *testing.T) {
	_, err := Document([]Entry{{Kind: Comment, ID: 1}})
	if !errors.Is(err, ErrNoTopic) {
		t.Errorf("err = %v, want ErrNoTopic", err)
	}
}

func TestMalformedMarkupStillParses(t *testing.T) {
	page := `<article class="topic"><div class="msg_body"><b>unclosed</div></article>`
	entries, err := ParseDocument(strings.NewReader(page), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseDocument: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if got := entries[0].Content.Text.String(); got != "unclosed" {
		t.Errorf("text = %q, want %q", got, "unclosed")
	}
}
