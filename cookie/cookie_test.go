package cookie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("attributes and flags", func(t *testing.T) {
		c, err := Parse("sid=abc123; Path=/; HttpOnly")
		require.NoError(t, err)

		assert.Equal(t, Cookie{
			Key:   "sid",
			Value: "abc123",
			Attributes: map[string]Attribute{
				"Path":     {Value: "/"},
				"HttpOnly": {Flag: true},
			},
		}, c)
		assert.True(t, c.HasFlag("HttpOnly"))
		path, ok := c.Attr("Path")
		assert.True(t, ok)
		assert.Equal(t, "/", path)
		_, ok = c.Attr("HttpOnly")
		assert.False(t, ok)
	})

	t.Run("value splits on first equals only", func(t *testing.T) {
		c, err := Parse("token=a=b==; Expires=Wed, 21 Oct 2026 07:28:00 GMT")
		require.NoError(t, err)
		assert.Equal(t, "token", c.Key)
		assert.Equal(t, "a=b==", c.Value)
		exp, _ := c.Attr("Expires")
		assert.Equal(t, "Wed, 21 Oct 2026 07:28:00 GMT", exp)
	})

	t.Run("empty value", func(t *testing.T) {
		c, err := Parse("gone=; Max-Age=0")
		require.NoError(t, err)
		assert.Equal(t, "gone", c.Key)
		assert.Equal(t, "", c.Value)
		maxAge, _ := c.Attr("Max-Age")
		assert.Equal(t, "0", maxAge)
	})

	t.Run("no attributes", func(t *testing.T) {
		c, err := Parse("a=1")
		require.NoError(t, err)
		assert.Empty(t, c.Attributes)
	})

	t.Run("missing equals", func(t *testing.T) {
		_, err := Parse("justaname; Path=/")
		assert.ErrorIs(t, err, ErrMalformedCookieEntry)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := Parse("=value; Secure")
		assert.ErrorIs(t, err, ErrMalformedCookieEntry)
	})
}

func TestParseSetCookie_LastWins(t *testing.T) {
	cookies, err := ParseSetCookie([]string{
		"sid=first; Path=/",
		"theme=dark",
		"sid=second; Secure",
	})
	require.NoError(t, err)

	require.Len(t, cookies, 2)
	assert.Equal(t, "second", cookies["sid"].Value)
	assert.True(t, cookies["sid"].HasFlag("Secure"))
	_, hasPath := cookies["sid"].Attributes["Path"]
	assert.False(t, hasPath)
	assert.Equal(t, "dark", cookies["theme"].Value)
}

func TestParseSetCookie_StrictFails(t *testing.T) {
	cookies, err := ParseSetCookie([]string{"ok=1", "broken"})
	assert.Nil(t, cookies)
	assert.ErrorIs(t, err, ErrMalformedCookieEntry)
}

func TestParseSetCookieLenient(t *testing.T) {
	var skipped []string
	cookies := ParseSetCookieLenient([]string{"ok=1", "broken", "=x", "also=2"}, func(entry string, err error) {
		assert.ErrorIs(t, err, ErrMalformedCookieEntry)
		skipped = append(skipped, entry)
	})

	assert.Equal(t, []string{"broken", "=x"}, skipped)
	assert.Equal(t, map[string]string{"ok": "1", "also": "2"}, Values(cookies))

	// nil callback is allowed
	assert.Len(t, ParseSetCookieLenient([]string{"broken"}, nil), 0)
}

func TestBuildHeader(t *testing.T) {
	assert.Equal(t, "", BuildHeader())
	assert.Equal(t, "a=1", BuildHeader(Pair{"a", "1"}))
	assert.Equal(t, "b=2; a=1", BuildHeader(Pair{"b", "2"}, Pair{"a", "1"}))
}

func TestBuildHeaderFromMap(t *testing.T) {
	assert.Equal(t, "a=1; b=2; c=3", BuildHeaderFromMap(map[string]string{"c": "3", "a": "1", "b": "2"}))
}

func TestRoundTrip(t *testing.T) {
	cookies, err := ParseSetCookie([]string{"name=value; Path=/; Secure"})
	require.NoError(t, err)

	header := BuildHeaderFromMap(Values(cookies))
	assert.Contains(t, header, "name=value")
}
