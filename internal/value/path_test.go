package value

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcncl/anyrt/internal/errors"
)

func pathFixture() AnyValue {
	user := NewAnyObject()
	user.Insert("name", String("Ada"))
	user.Insert("tags", List([]AnyValue{String("x"), String("y")}))

	root := NewAnyObject()
	root.Insert("user", Box(user))
	root.Insert("point", Object(map[string]AnyValue{"x": Int(3)}))
	return Box(root)
}

func TestSplitPath(t *testing.T) {
	assert.Nil(t, SplitPath(""))
	assert.Nil(t, SplitPath("."))
	assert.Equal(t, []string{"a", "0", "b"}, SplitPath("a.0.b"))
	assert.Equal(t, []string{"a"}, SplitPath(".a"))
}

func TestAt(t *testing.T) {
	root := pathFixture()

	got, err := root.At(SplitPath("user.tags.1"), false)
	require.NoError(t, err)
	assert.True(t, Equal(String("y"), got))

	got, err = root.At(SplitPath("point.x"), true)
	require.NoError(t, err)
	assert.True(t, Equal(Int(3), got))

	got, err = root.At(nil, true)
	require.NoError(t, err)
	assert.True(t, Equal(root, got))
}

func TestAt_MissingKey(t *testing.T) {
	root := pathFixture()

	got, err := root.At(SplitPath("user.email"), false)
	require.NoError(t, err)
	assert.True(t, got.IsNone())

	_, err = root.At(SplitPath("user.email"), true)
	assert.True(t, stderrors.Is(err, errors.ErrKeyNotFound))

	_, err = root.At(SplitPath("point.z"), false)
	assert.True(t, stderrors.Is(err, errors.ErrKeyNotFound), "structural objects have a fixed shape")
}

func TestAt_Errors(t *testing.T) {
	root := pathFixture()

	tests := []struct {
		path string
		want error
	}{
		{"user.tags.5", errors.ErrIndexOutOfRange},
		{"user.tags.-1", errors.ErrIndexOutOfRange},
		{"user.tags.first", errors.ErrIndexOutOfRange},
		{"user.name.0", errors.ErrNotAnObject},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := root.At(SplitPath(tt.path), false)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, tt.want), "got %v", err)
			assert.True(t, stderrors.Is(err, &errors.AppError{Type: errors.ErrorTypeLookup}))
		})
	}
}
