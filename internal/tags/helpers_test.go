package tags

import (
	"context"
	"strings"

	"github.com/plonetools/tagctl/internal/gateway"
	"github.com/plonetools/tagctl/pkg/errors"
)

const fakeBase = "http://site/"

// fakeGateway is an in-memory Gateway. Reads serve from docs, writes are
// recorded and applied to docs so verification reads observe them.
type fakeGateway struct {
	docs map[string]gateway.Document

	// readErrs is a per-path queue popped on each ReadItem; a nil entry
	// means that read succeeds.
	readErrs   map[string][]error
	updateErrs map[string]error

	// dropWrites silently discards the next n writes to a path, leaving
	// the stored document stale.
	dropWrites map[string]int
	writes     map[string][][]string

	pages       []*gateway.SearchPage
	searchErr   error
	searchCalls int

	children  map[string][]gateway.Document
	childErrs map[string]error

	subjects map[string][]gateway.Document
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		docs:       make(map[string]gateway.Document),
		readErrs:   make(map[string][]error),
		updateErrs: make(map[string]error),
		dropWrites: make(map[string]int),
		writes:     make(map[string][][]string),
		children:   make(map[string][]gateway.Document),
		childErrs:  make(map[string]error),
		subjects:   make(map[string][]gateway.Document),
	}
}

func (f *fakeGateway) ReadItem(_ context.Context, path string) (gateway.Document, error) {
	if queue := f.readErrs[path]; len(queue) > 0 {
		err := queue[0]
		f.readErrs[path] = queue[1:]
		if err != nil {
			return nil, err
		}
	}
	doc, ok := f.docs[path]
	if !ok {
		return nil, &errors.NotFoundError{Path: path}
	}
	return doc, nil
}

func (f *fakeGateway) Search(_ context.Context, _ string, _ int) (*gateway.SearchPage, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	call := f.searchCalls
	f.searchCalls++
	if call < len(f.pages) {
		return f.pages[call], nil
	}
	return &gateway.SearchPage{}, nil
}

func (f *fakeGateway) SearchBySubject(_ context.Context, subject, _ string) ([]gateway.Document, error) {
	return f.subjects[subject], nil
}

func (f *fakeGateway) Children(_ context.Context, path string) ([]gateway.Document, error) {
	if err := f.childErrs[path]; err != nil {
		return nil, err
	}
	return f.children[path], nil
}

func (f *fakeGateway) UpdateTags(_ context.Context, path string, subjects []string) error {
	f.writes[path] = append(f.writes[path], append([]string(nil), subjects...))
	if err := f.updateErrs[path]; err != nil {
		return err
	}
	if f.dropWrites[path] > 0 {
		f.dropWrites[path]--
		return nil
	}
	doc, ok := f.docs[path]
	if !ok {
		doc = gateway.Document{"@id": fakeBase + path}
		f.docs[path] = doc
	}
	doc["subjects"] = append([]string(nil), subjects...)
	return nil
}

func (f *fakeGateway) PathFor(id string) string {
	return strings.TrimPrefix(id, fakeBase)
}

// item builds a stored document carrying the given tags.
func item(path string, tags ...string) gateway.Document {
	doc := gateway.Document{"@id": fakeBase + path}
	if len(tags) > 0 {
		doc["subjects"] = append([]string(nil), tags...)
	}
	return doc
}

// folder builds a container document.
func folder(path string, tags ...string) gateway.Document {
	doc := item(path, tags...)
	doc["is_folderish"] = true
	return doc
}

// summary builds a catalog search row, which exposes tags under "Subject".
func summary(path string, tags ...string) gateway.Document {
	doc := gateway.Document{"@id": fakeBase + path}
	if len(tags) > 0 {
		entries := make([]any, len(tags))
		for i, tag := range tags {
			entries[i] = tag
		}
		doc["Subject"] = entries
	}
	return doc
}
