package services

import (
  "net/url"
  "strings"
  "testing"

  "github.com/shopspring/decimal"
  "github.com/stretchr/testify/assert"
  "github.com/stretchr/testify/require"

  "github.com/bidex-org/bidex-backend/internal/logger"
)

func TestBuildBookingLink(t *testing.T) {
  svc := NewBookingService(logger.Nop(), "+2349026001136")
  form := BookingForm{
    Name:           "Tolu Ade",
    Phone:          "08031234567",
    Email:          "tolu@example.com",
    EventType:      "Wedding",
    EventDate:      "2026-12-12",
    Location:       "Eko Hotel, Lagos",
    GuestCount:     "250",
    PackageType:    "full",
    AdditionalInfo: "Outdoor reception",
  }

  link, err := svc.BuildBookingLink(form)
  require.NoError(t, err)

  u, err := url.Parse(link)
  require.NoError(t, err)
  assert.Equal(t, "wa.me", u.Host)
  assert.Equal(t, "/2349026001136", u.Path)

  text := u.Query().Get("text")
  for _, v := range []string{form.Name, form.Phone, form.Email, form.EventType, form.EventDate, form.Location, form.GuestCount, form.AdditionalInfo} {
    assert.Contains(t, text, v)
  }
  assert.Contains(t, text, "Full Setup (₦120,000)")
  assert.True(t, strings.HasPrefix(text, "Hello DJ Bidex! I'd like to book your services:"))
  assert.True(t, strings.HasSuffix(text, "Please send me your account details for payment. Thank you!"))
}

func TestBuildBookingLinkHalfPackage(t *testing.T) {
  svc := NewBookingService(logger.Nop(), "+2349026001136")
  link, err := svc.BuildBookingLink(BookingForm{
    Name: "A", Phone: "1", EventType: "Other", EventDate: "soon", Location: "Abuja", PackageType: "HALF",
  })
  require.NoError(t, err)
  u, _ := url.Parse(link)
  assert.Contains(t, u.Query().Get("text"), "Half Setup (₦50,000)")
}

func TestBuildBookingLinkMissingFields(t *testing.T) {
  svc := NewBookingService(logger.Nop(), "+2349026001136")
  _, err := svc.BuildBookingLink(BookingForm{Name: "Tolu", PackageType: "full", Location: "  "})
  require.ErrorIs(t, err, ErrValidation)
  assert.Contains(t, err.Error(), "phone, eventType, eventDate, location")
  assert.NotContains(t, err.Error(), "name,")
}

func TestBuildBookingLinkUnknownPackage(t *testing.T) {
  svc := NewBookingService(logger.Nop(), "+2349026001136")
  _, err := svc.BuildBookingLink(BookingForm{
    Name: "A", Phone: "1", EventType: "Other", EventDate: "soon", Location: "Abuja", PackageType: "deluxe",
  })
  assert.ErrorIs(t, err, ErrValidation)
}

func TestFormatNaira(t *testing.T) {
  cases := map[int64]string{0: "0", 950: "950", 50000: "50,000", 120000: "120,000", 1500000: "1,500,000"}
  for in, want := range cases {
    assert.Equal(t, want, formatNaira(decimal.NewFromInt(in)))
  }
}
