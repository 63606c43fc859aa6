package domain

import (
	"testing"

	imagedom "github.com/shouni/gemini-image-kit/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImage_DataURL(t *testing.T) {
	t.Run("MIMEタイプとbase64ペイロードを連結するのだ", func(t *testing.T) {
		img := Image{Data: []byte("hello"), MimeType: "image/png"}
		assert.Equal(t, "data:image/png;base64,aGVsbG8=", img.DataURL())
	})

	t.Run("DataURLとParseDataURLで元に戻るのだ", func(t *testing.T) {
		img := Image{Data: []byte{0x89, 'P', 'N', 'G', 0x00, 0xff}, MimeType: "image/png"}

		parsed, err := ParseDataURL(img.DataURL())
		require.NoError(t, err)
		assert.True(t, img.Equal(parsed))
	})
}

func TestParseDataURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "カンマがない", input: "data:image/png;base64"},
		{name: "MIMEタイプの接頭辞がない", input: "aGVsbG8="},
		{name: "メタ部分が空", input: ",aGVsbG8="},
		{name: "ペイロードが空", input: "data:image/png;base64,"},
		{name: "data:スキームがない", input: "image/png;base64,aGVsbG8="},
		{name: "base64指定がない", input: "data:image/png,aGVsbG8="},
		{name: "MIMEタイプが空", input: "data:;base64,aGVsbG8="},
		{name: "base64が壊れている", input: "data:image/png;base64,@@@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDataURL(tt.input)
			assert.ErrorIs(t, err, ErrInvalidDataURL)
		})
	}

	t.Run("MIMEタイプのパラメータは取り除くのだ", func(t *testing.T) {
		img, err := ParseDataURL("data:image/jpeg;name=a.jpg;base64,aGVsbG8=")
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", img.MimeType)
		assert.Equal(t, []byte("hello"), img.Data)
	})
}

func TestImage_Validate(t *testing.T) {
	assert.NoError(t, Image{Data: []byte("x"), MimeType: "image/png"}.Validate())
	assert.ErrorIs(t, Image{Data: []byte("x")}.Validate(), ErrInvalidDataURL)
	assert.ErrorIs(t, Image{MimeType: "image/png"}.Validate(), ErrInvalidDataURL)
	assert.True(t, Image{}.IsZero())
}

func TestNewImageFromResponse(t *testing.T) {
	img := NewImageFromResponse(&imagedom.ImageResponse{Data: []byte("img"), MimeType: "image/webp"})
	assert.Equal(t, Image{Data: []byte("img"), MimeType: "image/webp"}, img)
	assert.True(t, NewImageFromResponse(nil).IsZero())
}

func TestResultSet(t *testing.T) {
	rs := ResultSet{
		{Data: []byte("a"), MimeType: "image/png"},
		{Data: []byte("b"), MimeType: "image/jpeg"},
	}

	t.Run("Cloneは独立したスライスを返すのだ", func(t *testing.T) {
		cloned := rs.Clone()
		cloned[0] = Image{Data: []byte("z"), MimeType: "image/png"}
		assert.Equal(t, []byte("a"), rs[0].Data)
	})

	t.Run("Cloneはバイト列も複製するのだ", func(t *testing.T) {
		cloned := rs.Clone()
		cloned[1].Data[0] = 'z'
		assert.Equal(t, []byte("b"), rs[1].Data)
	})

	t.Run("範囲外のAtはfalseなのだ", func(t *testing.T) {
		_, ok := rs.At(2)
		assert.False(t, ok)
		_, ok = rs.At(-1)
		assert.False(t, ok)
		img, ok := rs.At(1)
		assert.True(t, ok)
		assert.Equal(t, "image/jpeg", img.MimeType)
	})

	t.Run("DataURLsはスロット順なのだ", func(t *testing.T) {
		assert.Equal(t, []string{"data:image/png;base64,YQ==", "data:image/jpeg;base64,Yg=="}, rs.DataURLs())
	})

	t.Run("nilのCloneは空のResultSetなのだ", func(t *testing.T) {
		var empty ResultSet
		assert.NotNil(t, empty.Clone())
		assert.Equal(t, 0, empty.Clone().Len())
	})
}
