package suppliers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequiredOrder(t *testing.T) {
	cases := []struct {
		name string
		in   Input
		want string
	}{
		{"all empty", Input{}, MsgCompanyNameRequired},
		{"person missing", Input{CompanyName: "X"}, MsgPersonRequired},
		{"address missing", Input{CompanyName: "X", ResponsiblePersonName: "Y", Mobile1: "bad"}, MsgAddressRequired},
		{"mobile missing", Input{CompanyName: "X", ResponsiblePersonName: "Y", Address: "Z", Mobile1: "  "}, MsgMobile1Required},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			require.Len(t, verr.Errors, 1)
			assert.Equal(t, tc.want, verr.Reason())
		})
	}
}

func TestValidateAccumulatesFormatErrors(t *testing.T) {
	in := validInput()
	in.Mobile1 = "0201234567"
	in.Mobile2 = "123"
	in.Email = "not-an-email"

	err := Validate(in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	fields := verr.Fields()
	assert.Equal(t, MsgMobile1Invalid, fields[FieldMobile1])
	assert.Equal(t, MsgMobile2Invalid, fields[FieldMobile2])
	assert.Equal(t, MsgEmailInvalid, fields[FieldEmail])
	assert.Contains(t, err.Error(), "; ")
}

func TestValidateAcceptsFormattedInput(t *testing.T) {
	in := validInput()
	in.Mobile2 = "012 3456 7890"
	in.Email = "sales@nile.eg"
	assert.NoError(t, Validate(in))
}

func TestPhoneDisplay(t *testing.T) {
	assert.Equal(t, "010-1234-5678", FormatPhone("01012345678"))
	assert.Equal(t, "010-1234-5678", FormatPhone("010 1234 5678"))
	assert.Equal(t, "12345", FormatPhone("12345"))
	assert.Equal(t, "+201012345678", TelLink("010-1234-5678"))
	assert.Equal(t, "+971501234567", TelLink("+971 50 123 4567"))
	assert.Equal(t, "", TelLink(""))
	assert.Equal(t, "01012345678", CanonicalPhone(" 010-1234-5678 "))
}

func TestCategoryLabels(t *testing.T) {
	assert.Equal(t, "مواد غذائية", CategoryLabel("food_supplies", "ar"))
	assert.Equal(t, "Food supplies", CategoryLabel("Food", "en"))
	assert.Equal(t, "Widgets", CategoryLabel("Widgets", "en"))
	assert.Equal(t, "-", CategoryLabel("", "ar"))
	assert.True(t, IsKnownCategory("Clothing"))
	assert.False(t, IsKnownCategory("Widgets"))
}

func TestInputFromRoundTripsOptionalFields(t *testing.T) {
	email := "a@b.co"
	in := InputFrom(Supplier{CompanyName: "X", Email: &email})
	assert.Equal(t, "a@b.co", in.Email)
	assert.Empty(t, in.Mobile2)
}
