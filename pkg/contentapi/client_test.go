package contentapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectionFilterOmitsBlankFields(t *testing.T) {
	q := CollectionFilter{GradeLevel: "3"}.Query()
	assert.Equal(t, "grade_level=3", q.Encode())

	q = CollectionFilter{}.Query()
	assert.Empty(t, q.Encode(), "no filters means no query parameters at all")

	q = CollectionFilter{Search: "animals", GradeLevel: "3", Subject: "english"}.Query()
	assert.Equal(t, "3", q.Get("grade_level"))
	assert.Equal(t, "animals", q.Get("search"))
	assert.Equal(t, "english", q.Get("subject"))
}

func TestListCollectionsSendsExactFilter(t *testing.T) {
	var gotQuery string
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/content/collections", r.URL.Path)
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode([]Collection{{ID: "c1", Name: "Animals", GradeLevel: "3"}})
	}))
	defer srv.Close()

	client := New(srv.URL)
	client.SetToken("tok-123")

	cols, err := client.ListCollections(context.Background(), CollectionFilter{GradeLevel: "3"})
	require.NoError(t, err)

	assert.Equal(t, "grade_level=3", gotQuery, `grade "3" must match exactly, not "13" or "30"`)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	require.Len(t, cols, 1)
	assert.Equal(t, "Animals", cols[0].Name)
}

func TestErrorDetailIsParsed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Collection not found", "error_code": "LX-2003"}`))
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.GetCollection(context.Background(), "missing")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Collection not found", apiErr.Detail)
	assert.Equal(t, "Collection not found", apiErr.Error())
}

func TestErrorFallsBackToErrorFieldThenRawBody(t *testing.T) {
	cases := []struct {
		body   string
		detail string
	}{
		{`{"error": "Internal Server Error"}`, "Internal Server Error"},
		{`not json at all`, "not json at all"},
	}
	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(tc.body))
		}))
		client := New(srv.URL)
		_, err := client.Me(context.Background())
		srv.Close()

		var apiErr *APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, tc.detail, apiErr.Detail)
	}
}

func TestCreateCollectionRejectsBlankNameBeforeNetwork(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should be issued for a blank name")
	}))
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.CreateCollection(context.Background(), CollectionParams{Name: "   "})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = client.UpdateCollection(context.Background(), "c1", CollectionParams{})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestLoginSendsFormEncoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/login", r.URL.Path)
		require.Contains(t, r.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "teacher1", r.PostForm.Get("username"))
		assert.Equal(t, "s3cret", r.PostForm.Get("password"))
		json.NewEncoder(w).Encode(LoginResult{
			AccessToken: "tok",
			TokenType:   "bearer",
			User:        User{ID: "u1", Username: "teacher1"},
		})
	}))
	defer srv.Close()

	client := New(srv.URL)
	res, err := client.Login(context.Background(), "teacher1", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.AccessToken)
	assert.Equal(t, "teacher1", res.User.Username)
}

func TestUploadImageSendsMultipartWithContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/image-processing/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "worksheet.png", header.Filename)
		assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
		json.NewEncoder(w).Encode(UploadResult{FileID: "f1", Filename: header.Filename})
	}))
	defer srv.Close()

	client := New(srv.URL)
	res, err := client.UploadImage(context.Background(), "worksheet.png", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "f1", res.FileID)
}

func TestSaveToLearningSetSendsJSONFormFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/image-processing/save-to-learning-set", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "set-1", r.FormValue("learning_set_id"))
		assert.Equal(t, "f1", r.FormValue("file_id"))

		var vocab []ExtractedVocabularyItem
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("vocabulary_items")), &vocab))
		require.Len(t, vocab, 1)
		assert.Equal(t, "apple", vocab[0].Word)

		var grammar []ExtractedGrammarTopic
		require.NoError(t, json.Unmarshal([]byte(r.FormValue("grammar_topics")), &grammar))
		assert.Empty(t, grammar)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(SaveResult{VocabularySaved: 1, LearningSetID: "set-1"})
	}))
	defer srv.Close()

	client := New(srv.URL)
	res, err := client.SaveToLearningSet(context.Background(), "set-1", "f1",
		[]ExtractedVocabularyItem{{Word: "apple", Definition: "a fruit", Confidence: 0.9}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.VocabularySaved)
}

func TestCleanupFileIssuesDelete(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := New(srv.URL)
	require.NoError(t, client.CleanupFile(context.Background(), "f1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/image-processing/cleanup/f1", gotPath)
}

func TestClearTokenStopsSendingAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(DashboardSummary{})
	}))
	defer srv.Close()

	client := New(srv.URL)
	client.SetToken("tok")
	client.ClearToken()
	_, err := client.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}
