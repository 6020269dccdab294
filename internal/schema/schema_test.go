package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"bookshelf/internal/domain"
)

func TestBookValidate(t *testing.T) {
	valid := Book{ID: 1, Title: "Go", Author: "X", Publisher: "Y"}

	tests := []struct {
		name   string
		mutate func(*Book)
		ok     bool
	}{
		{"valid", func(b *Book) {}, true},
		{"zero id", func(b *Book) { b.ID = 0 }, false},
		{"negative id", func(b *Book) { b.ID = -4 }, false},
		{"missing title", func(b *Book) { b.Title = "" }, false},
		{"blank author", func(b *Book) { b.Author = "   " }, false},
		{"missing publisher", func(b *Book) { b.Publisher = "" }, false},
		{"title at limit", func(b *Book) { b.Title = strings.Repeat("t", domain.MaxTitleLen) }, true},
		{"title too long", func(b *Book) { b.Title = strings.Repeat("t", domain.MaxTitleLen+1) }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			tt.mutate(&b)
			err := b.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrValidation))
		})
	}
}

func TestStudentValidate(t *testing.T) {
	s := Student{ID: 3, Name: "Ravi", Grade: 9, Address: "Pune"}
	assert.NoError(t, s.Validate())

	long := s
	long.Name = "Bartholomew"
	assert.ErrorIs(t, long.Validate(), domain.ErrValidation)

	neg := s
	neg.Grade = -1
	assert.ErrorIs(t, neg.Validate(), domain.ErrValidation)
}

func TestBookMappingRoundTrip(t *testing.T) {
	in := Book{ID: 1, Title: "Go", Author: "X", Publisher: "Y"}
	assert.Equal(t, in, BookFromRecord(BookToRecord(in)))
}

func TestStudentMappingRoundTrip(t *testing.T) {
	in := Student{ID: 2, Name: "Asha", Grade: 7, Address: "Delhi"}
	assert.Equal(t, in, StudentFromRecord(StudentToRecord(in)))
}

func TestPostInputDerivesSlug(t *testing.T) {
	t.Run("title present overrides slug", func(t *testing.T) {
		var in PostInput
		require.NoError(t, json.Unmarshal([]byte(`{"title":"Hello World","slug":"ignored"}`), &in))
		assert.Equal(t, "Hello World", in.Title)
		assert.Equal(t, "hello-world", in.Slug)
		assert.Nil(t, in.Content)
	})

	t.Run("title absent leaves slug unset", func(t *testing.T) {
		var in PostInput
		require.NoError(t, json.Unmarshal([]byte(`{"content":"body"}`), &in))
		assert.Empty(t, in.Slug)
		require.NotNil(t, in.Content)
		assert.Equal(t, "body", *in.Content)
		assert.ErrorIs(t, in.Validate(), domain.ErrValidation)
	})

	t.Run("title absent keeps provided slug", func(t *testing.T) {
		var in PostInput
		require.NoError(t, json.Unmarshal([]byte(`{"slug":"kept"}`), &in))
		assert.Equal(t, "kept", in.Slug)
	})

	t.Run("double space", func(t *testing.T) {
		var in PostInput
		require.NoError(t, json.Unmarshal([]byte(`{"title":"A  B"}`), &in))
		assert.Equal(t, "a--b", in.Slug)
	})

	t.Run("malformed payload", func(t *testing.T) {
		var in PostInput
		assert.Error(t, json.Unmarshal([]byte(`["title"]`), &in))
	})
}

func TestPostMapping(t *testing.T) {
	content := "first post"
	in := NewPostInput("Hello World", &content)
	rec := PostToRecord(in)

	assert.Equal(t, "hello-world", rec.Slug)
	require.NotNil(t, rec.Content)
	content = "changed"
	assert.Equal(t, "first post", *rec.Content, "record must not alias the input")

	rec.ID = 12
	rec.CreatedAt = time.Date(2024, 3, 9, 17, 45, 0, 0, time.UTC)
	view := PostFromRecord(rec)

	assert.Equal(t, int64(12), view.ID)
	assert.Equal(t, "Hello World", view.Title)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":12,"title":"Hello World","slug":"hello-world","content":"first post","created_at":"2024-03-09"}`, string(data))
}

func TestDateUnmarshal(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2023-11-02"`), &d))
	assert.Equal(t, 2023, d.Year())
	assert.Equal(t, time.November, d.Month())

	assert.Error(t, json.Unmarshal([]byte(`"02/11/2023"`), &d))

	for _, raw := range []string{`null`, `""`} {
		d = Date{Time: time.Now()}
		require.NoError(t, json.Unmarshal([]byte(raw), &d), raw)
		assert.True(t, d.IsZero(), raw)
	}
}

func TestPostViewIgnoresMissingDate(t *testing.T) {
	var fromJSON PostView
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Draft","created_at":null}`), &fromJSON))
	assert.True(t, fromJSON.CreatedAt.IsZero())

	docs := []string{
		"title: Draft\ncreated_at: null\n",
		"title: Draft\ncreated_at:\n",
		"title: Draft\ncreated_at: \"\"\n",
	}
	for _, doc := range docs {
		var fromYAML PostView
		require.NoError(t, yaml.Unmarshal([]byte(doc), &fromYAML), doc)
		assert.Equal(t, "Draft", fromYAML.Title)
		assert.True(t, fromYAML.CreatedAt.IsZero(), doc)
	}

	var bad PostView
	assert.Error(t, yaml.Unmarshal([]byte("created_at: yesterday\n"), &bad))
}
