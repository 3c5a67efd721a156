package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mawrid/mawrid/internal/suppliers"
)

func TestNegotiate(t *testing.T) {
	assert.Equal(t, English, Negotiate("en", "ar"))
	assert.Equal(t, Arabic, Negotiate("", ""))
	assert.Equal(t, English, Negotiate("", "en-GB,en;q=0.8"))
	assert.Equal(t, Arabic, Negotiate("", "ar-EG,ar;q=0.9,en;q=0.5"))
	assert.Equal(t, Arabic, Negotiate("fr", "de-DE"))
	assert.Equal(t, Arabic, Negotiate("", "%%%"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, Arabic, Normalize("ar-EG"))
	assert.Equal(t, English, Normalize("en"))
	assert.Empty(t, Normalize("fr"))
	assert.Empty(t, Normalize(""))
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, "تسجيل الدخول", T(Arabic, "Sign in"))
	assert.Equal(t, "Sign in", T(English, "Sign in"))
	assert.Equal(t, "خطأ: boom", T(Arabic, "Error: %s", "boom"))
	assert.Equal(t, "untranslated text", T(Arabic, "untranslated text"))
	assert.Equal(t, "rtl", Dir(Arabic))
	assert.Equal(t, "ltr", Dir(English))
}

func TestValidationMessagesTranslated(t *testing.T) {
	for _, key := range []string{
		suppliers.MsgCompanyNameRequired,
		suppliers.MsgPersonRequired,
		suppliers.MsgAddressRequired,
		suppliers.MsgMobile1Required,
		suppliers.MsgMobile1Invalid,
		suppliers.MsgMobile2Invalid,
		suppliers.MsgEmailInvalid,
	} {
		assert.True(t, Has(key), key)
	}
}
