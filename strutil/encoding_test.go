package strutil

import (
	"bytes"
	"errors"
	"testing"
)

var (
	aUTF8 = []byte("あ")
	aSJIS = []byte{0x82, 0xa0}
)

func TestLookupEncoding(t *testing.T) {
	for _, name := range []string{"utf-8", "UTF-8", "utf8", "ascii", "US-ASCII", "Shift_JIS", "sjis", "EUC-JP", "ISO-8859-1", "windows-1252"} {
		if !ValidEncoding(name) {
			t.Errorf("ValidEncoding(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"", "C", "no-such-charset"} {
		_, err := LookupEncoding(name)
		if !errors.Is(err, ErrUnknownEncoding) {
			t.Errorf("LookupEncoding(%q) err = %v, want ErrUnknownEncoding", name, err)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		data    []byte
		enc     string
		want    string
		wantErr bool
	}{
		{[]byte("abc"), "ascii", "abc", false},
		{[]byte{0x03}, "ascii", "\x03", false},
		{aUTF8[:1], "ascii", "", true},
		{aSJIS[:1], "ascii", "", true},
		{aUTF8, "utf-8", "あ", false},
		{aUTF8[:2], "utf-8", "", true},
		{aSJIS, "shift_jis", "あ", false},
		{[]byte{0xe9}, "iso-8859-1", "é", false},
	}

	for _, tt := range tests {
		got, err := Decode(tt.data, tt.enc)
		if tt.wantErr {
			if !errors.Is(err, ErrDecode) {
				t.Errorf("Decode(%x, %s) err = %v, want ErrDecode", tt.data, tt.enc, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("Decode(%x, %s) = %q, %v; want %q", tt.data, tt.enc, got, err, tt.want)
		}
	}
}

func TestDecodeAny(t *testing.T) {
	got, err := DecodeAny(aSJIS, "utf-8", "shift_jis")
	if err != nil || got != "あ" {
		t.Errorf("DecodeAny(sjis, utf-8, shift_jis) = %q, %v; want あ", got, err)
	}

	got, err = DecodeAny(aUTF8, "utf-8", "utf-8", "shift_jis")
	if err != nil || got != "あ" {
		t.Errorf("DecodeAny(utf8, ...) = %q, %v; want あ", got, err)
	}

	_, err = DecodeAny(aUTF8[:1], "ascii", "utf-8")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("DecodeAny(bad) err = %v, want ErrDecode", err)
	}
	// The first encoding's failure is the one reported.
	if _, asciiErr := Decode(aUTF8[:1], "ascii"); asciiErr.Error() != err.Error() {
		t.Errorf("DecodeAny reported %q, want first failure %q", err, asciiErr)
	}

	if _, err := DecodeAny(aUTF8); !errors.Is(err, ErrNoEncodings) {
		t.Errorf("DecodeAny() err = %v, want ErrNoEncodings", err)
	}
}

func TestDecodeLenient(t *testing.T) {
	if got := DecodeLenient(aSJIS, "shift_jis"); got != "あ" {
		t.Errorf("DecodeLenient(sjis) = %q, want あ", got)
	}
	if got := DecodeLenient([]byte("a\xffb"), "utf-8"); got != "a\uFFFDb" {
		t.Errorf("DecodeLenient(invalid utf-8) = %q", got)
	}
	if got := DecodeLenient([]byte("abc"), "no-such-charset"); got != "abc" {
		t.Errorf("DecodeLenient(unknown) = %q, want abc", got)
	}
}

func TestEncode(t *testing.T) {
	got, err := Encode("あ", "shift_jis")
	if err != nil || !bytes.Equal(got, aSJIS) {
		t.Errorf("Encode(あ, shift_jis) = %x, %v; want %x", got, err, aSJIS)
	}
	if _, err := Encode("あ", "ascii"); !errors.Is(err, ErrEncode) {
		t.Errorf("Encode(あ, ascii) err = %v, want ErrEncode", err)
	}
	if _, err := Encode("あ", "iso-8859-1"); !errors.Is(err, ErrEncode) {
		t.Errorf("Encode(あ, iso-8859-1) err = %v, want ErrEncode", err)
	}
}

func TestWriteSafe(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSafe(&buf, "aあb", "ascii", "\n"); err != nil {
		t.Fatalf("WriteSafe failed: %v", err)
	}
	if got := buf.String(); got != "ab\n" {
		t.Errorf("WriteSafe(ascii) wrote %q, want %q", got, "ab\n")
	}

	buf.Reset()
	if err := WriteSafe(&buf, "あいう", "utf-8", ""); err != nil {
		t.Fatalf("WriteSafe failed: %v", err)
	}
	if got := buf.String(); got != "あいう" {
		t.Errorf("WriteSafe(utf-8) wrote %q", got)
	}

	if err := WriteSafe(&buf, "x", "no-such-charset", "\n"); !errors.Is(err, ErrUnknownEncoding) {
		t.Errorf("WriteSafe(unknown) err = %v, want ErrUnknownEncoding", err)
	}
}
