package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/storemedia/backend/internal/apierr"
	"github.com/storemedia/backend/internal/models"
	"github.com/storemedia/backend/internal/shopify"
)

// fakeCall records one REST call
type fakeCall struct {
	Method string
	Path   string
	Body   map[string]any
}

// fakeStore is a call-counting in-memory StoreClient and ExternalStore.
//
// REST responses are registered per "METHOD path" (query stripped) and
// GraphQL responses per operation name. Each registered response is served
// once, the last one repeats. A response starting with "!" is an error:
// "!404 Not Found" fails with status 404 and message "Not Found".
// Metafield routes without a registered response are emulated with real state.
type fakeStore struct {
	name string

	mu           sync.Mutex
	rest         map[string][]string
	links        map[string]string
	graphql      map[string][]string
	restCalls    []fakeCall
	graphqlCalls []string
	graphqlVars  []map[string]any
	uploads      []string
	uploadErr    error
	metafields   map[string][]models.Metafield
	nextID       int64
}

var metafieldRoute = regexp.MustCompile(`^(products|variants)/([^/]+)/metafields(?:/(\d+))?\.json$`)

func newFakeStore(name string) *fakeStore {
	return &fakeStore{
		name:       name,
		rest:       map[string][]string{},
		links:      map[string]string{},
		graphql:    map[string][]string{},
		metafields: map[string][]models.Metafield{},
		nextID:     1000,
	}
}

func (f *fakeStore) onREST(method, path string, responses ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rest[method+" "+path] = append(f.rest[method+" "+path], responses...)
}

// onPage registers a paginated GET; path is matched including its query
func (f *fakeStore) onPage(path, response, next string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rest["GET "+path] = []string{response}
	f.links[path] = next
}

func (f *fakeStore) onGraphQL(operation string, responses ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.graphql[operation] = append(f.graphql[operation], responses...)
}

// setMetafield seeds a metafield on an owner resource
func (f *fakeStore) setMetafield(owner, id, key, value, fieldType string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	ownerKey := owner + "/" + id
	f.metafields[ownerKey] = append(f.metafields[ownerKey], models.Metafield{
		ID: f.nextID, Namespace: MetafieldNamespace, Key: key, Value: value, Type: fieldType,
	})
}

// metafield returns the stored metafield, nil when absent
func (f *fakeStore) metafield(owner, id, key string) *models.Metafield {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, mf := range f.metafields[owner+"/"+id] {
		if mf.Namespace == MetafieldNamespace && mf.Key == key {
			copied := mf
			return &copied
		}
	}
	return nil
}

func (f *fakeStore) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.restCalls) + len(f.graphqlCalls) + len(f.uploads)
}

func (f *fakeStore) restCount(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, call := range f.restCalls {
		if call.Method == method && stripQuery(call.Path) == path {
			count++
		}
	}
	return count
}

func (f *fakeStore) lastBody(method, path string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.restCalls) - 1; i >= 0; i-- {
		call := f.restCalls[i]
		if call.Method == method && stripQuery(call.Path) == path {
			return call.Body
		}
	}
	return nil
}

func (f *fakeStore) graphqlCount(operation string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, op := range f.graphqlCalls {
		if op == operation {
			count++
		}
	}
	return count
}

func (f *fakeStore) Name() string { return f.name }

func (f *fakeStore) Execute(ctx context.Context, method, resourcePath string, body, out any) error {
	_, err := f.execute(method, resourcePath, body, out)
	return err
}

func (f *fakeStore) ExecutePage(ctx context.Context, resourcePath string, out any) (string, error) {
	return f.execute(http.MethodGet, resourcePath, nil, out)
}

func (f *fakeStore) execute(method, resourcePath string, body, out any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	call := fakeCall{Method: method, Path: resourcePath}
	if body != nil {
		raw, _ := json.Marshal(body)
		json.Unmarshal(raw, &call.Body)
	}
	f.restCalls = append(f.restCalls, call)

	key := method + " " + resourcePath
	if _, ok := f.rest[key]; !ok {
		key = method + " " + stripQuery(resourcePath)
	}
	response, ok := f.pop(f.rest, key)
	if !ok {
		if m := metafieldRoute.FindStringSubmatch(stripQuery(resourcePath)); m != nil {
			return "", f.handleMetafield(method, m[1]+"/"+m[2], m[3], call.Body, out)
		}
		return "", &apierr.RemoteAPIError{StatusCode: http.StatusNotFound, Message: "Not Found", RawBody: "no fake route for " + key}
	}
	if err := respond(response, out); err != nil {
		return "", err
	}
	return f.links[resourcePath], nil
}

func (f *fakeStore) handleMetafield(method, ownerKey, idStr string, body map[string]any, out any) error {
	fields := f.metafields[ownerKey]
	index := -1
	if idStr != "" {
		id, _ := strconv.ParseInt(idStr, 10, 64)
		for i := range fields {
			if fields[i].ID == id {
				index = i
			}
		}
		if index < 0 {
			return &apierr.RemoteAPIError{StatusCode: http.StatusNotFound, Message: "Not Found"}
		}
	}

	fromBody := func() models.Metafield {
		raw, _ := json.Marshal(body["metafield"])
		var mf models.Metafield
		json.Unmarshal(raw, &mf)
		return mf
	}

	switch {
	case method == http.MethodGet && idStr == "":
		return encodeInto(map[string]any{"metafields": append([]models.Metafield{}, fields...)}, out)
	case method == http.MethodPost && idStr == "":
		f.nextID++
		mf := fromBody()
		mf.ID = f.nextID
		f.metafields[ownerKey] = append(fields, mf)
		return encodeInto(map[string]any{"metafield": mf}, out)
	case method == http.MethodPut && index >= 0:
		mf := fromBody()
		mf.ID = fields[index].ID
		fields[index] = mf
		return encodeInto(map[string]any{"metafield": mf}, out)
	case method == http.MethodDelete && index >= 0:
		f.metafields[ownerKey] = append(fields[:index:index], fields[index+1:]...)
		return nil
	}
	return &apierr.RemoteAPIError{StatusCode: http.StatusMethodNotAllowed, Message: "unsupported metafield call"}
}

func (f *fakeStore) Query(ctx context.Context, query string, variables map[string]any, out any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	operation := graphqlOperation(query)
	f.graphqlCalls = append(f.graphqlCalls, operation)
	f.graphqlVars = append(f.graphqlVars, variables)

	response, ok := f.pop(f.graphql, operation)
	if !ok {
		return &apierr.RemoteAPIError{Message: "no fake operation " + operation}
	}
	return respond(response, out)
}

func (f *fakeStore) UploadStaged(ctx context.Context, target shopify.StagedTarget, file shopify.StagedFile) error {
	data, err := io.ReadAll(file.Reader)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, fmt.Sprintf("%s|%s|%d|%d", target.URL, file.Filename, file.Size, len(data)))
	return f.uploadErr
}

// pop serves the next registered response, repeating the last one
func (f *fakeStore) pop(table map[string][]string, key string) (string, bool) {
	queue := table[key]
	if len(queue) == 0 {
		return "", false
	}
	response := queue[0]
	if len(queue) > 1 {
		table[key] = queue[1:]
	}
	return response, true
}

func respond(response string, out any) error {
	if strings.HasPrefix(response, "!") {
		status, message, _ := strings.Cut(response[1:], " ")
		code, _ := strconv.Atoi(status)
		return &apierr.RemoteAPIError{StatusCode: code, Message: message, RawBody: message}
	}
	if out == nil || response == "" {
		return nil
	}
	return json.Unmarshal([]byte(response), out)
}

func encodeInto(value any, out any) error {
	if out == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func graphqlOperation(query string) string {
	fields := strings.FieldsFunc(query, func(r rune) bool {
		return r == ' ' || r == '\n' || r == '\t' || r == '(' || r == '{'
	})
	for i, field := range fields {
		if (field == "query" || field == "mutation") && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}

func stripQuery(path string) string {
	if idx := strings.Index(path, "?"); idx >= 0 {
		return path[:idx]
	}
	return path
}
