package errors

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFolioErrorMessageIncludesSortedContext(t *testing.T) {
	err := New(CategoryValidation, SeverityError, "validation failed").
		WithContext("path", "a.yaml").
		WithContext("field", "title")

	msg := err.Error()
	require.Contains(t, msg, "validation (error): validation failed")
	// Context keys print in sorted order so messages are stable.
	require.Less(t, strings.Index(msg, "field="), strings.Index(msg, "path="))
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(cause, CategoryFileSystem, SeverityFatal, "filesystem operation failed")

	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "boom")
}

func TestCategoryHelpers(t *testing.T) {
	err := ParseError("p.yaml", stderrors.New("bad yaml"))

	require.True(t, IsCategory(err, CategoryParse))
	require.False(t, IsCategory(err, CategoryRender))
	require.Equal(t, CategoryParse, GetCategory(err))
	require.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
}

func TestValidationErrorNamesField(t *testing.T) {
	err := ValidationError("entry.yaml", "completion_date", "required field is missing or empty")

	msg := err.Error()
	require.Contains(t, msg, "field=completion_date")
	require.Contains(t, msg, "path=entry.yaml")
}
