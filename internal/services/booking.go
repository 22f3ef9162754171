package services

import (
  "fmt"
  "strings"

  "github.com/shopspring/decimal"

  "github.com/bidex-org/bidex-backend/internal/chatflow"
  "github.com/bidex-org/bidex-backend/internal/logger"
)

type BookingPackage struct {
  Key     string
  Name    string
  Price   decimal.Decimal
}

// Label renders the package the way customers see it, e.g. "Full Setup (₦120,000)".
func (p BookingPackage) Label() string {
  return fmt.Sprintf("%s (₦%s)", p.Name, formatNaira(p.Price))
}

var BookingPackages = map[string]BookingPackage{
  "full": {Key: "full", Name: "Full Setup", Price: decimal.NewFromInt(120000)},
  "half": {Key: "half", Name: "Half Setup", Price: decimal.NewFromInt(50000)},
}

var EventTypes = []string{"Wedding", "Birthday Party", "Corporate Event", "Private Party", "Baby Shower", "House Party", "Other"}

type BookingForm struct {
  Name            string    `json:"name"`
  Phone           string    `json:"phone"`
  Email           string    `json:"email"`
  EventType       string    `json:"eventType"`
  EventDate       string    `json:"eventDate"`
  Location        string    `json:"location"`
  GuestCount      string    `json:"guestCount"`
  PackageType     string    `json:"packageType"`
  AdditionalInfo  string    `json:"additionalInfo"`
}

type BookingService interface {
  // BuildBookingLink validates the form and returns the messaging deep link.
  BuildBookingLink(form BookingForm) (string, error)
}

type bookingService struct {
  log               *logger.Logger
  whatsAppNumber    string
}

func NewBookingService(log *logger.Logger, whatsAppNumber string) BookingService {
  return &bookingService{
    log:            log.With("service", "BookingService"),
    whatsAppNumber: whatsAppNumber,
  }
}

func (bs *bookingService) BuildBookingLink(form BookingForm) (string, error) {
  form = trimForm(form)
  var missing []string
  for _, f := range []struct{ name, value string }{
    {"name", form.Name},
    {"phone", form.Phone},
    {"eventType", form.EventType},
    {"eventDate", form.EventDate},
    {"location", form.Location},
    {"packageType", form.PackageType},
  } {
    if f.value == "" {
      missing = append(missing, f.name)
    }
  }
  if len(missing) > 0 {
    bs.log.Debug("Booking form missing fields", "missing", missing)
    return "", fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
  }
  pkg, ok := BookingPackages[strings.ToLower(form.PackageType)]
  if !ok {
    return "", fmt.Errorf("%w: packageType must be \"full\" or \"half\"", ErrValidation)
  }
  link := chatflow.WhatsAppLink(bs.whatsAppNumber, BookingMessage(form, pkg))
  bs.log.Info("Built booking link", "eventType", form.EventType, "package", pkg.Key)
  return link, nil
}

// BookingMessage is the text pre-filled into the messaging app.
func BookingMessage(form BookingForm, pkg BookingPackage) string {
  var sb strings.Builder
  sb.WriteString("Hello DJ Bidex! I'd like to book your services:\n\n")
  fmt.Fprintf(&sb, "👤 Name: %s\n", form.Name)
  fmt.Fprintf(&sb, "📞 Phone: %s\n", form.Phone)
  fmt.Fprintf(&sb, "📧 Email: %s\n", form.Email)
  fmt.Fprintf(&sb, "🎉 Event Type: %s\n", form.EventType)
  fmt.Fprintf(&sb, "📅 Date: %s\n", form.EventDate)
  fmt.Fprintf(&sb, "📍 Location: %s\n", form.Location)
  fmt.Fprintf(&sb, "👥 Guest Count: %s\n", form.GuestCount)
  fmt.Fprintf(&sb, "🎵 Package: %s\n", pkg.Label())
  fmt.Fprintf(&sb, "📝 Additional Info: %s\n\n", form.AdditionalInfo)
  sb.WriteString("Please send me your account details for payment. Thank you!")
  return sb.String()
}

func trimForm(f BookingForm) BookingForm {
  f.Name = strings.TrimSpace(f.Name)
  f.Phone = strings.TrimSpace(f.Phone)
  f.Email = strings.TrimSpace(f.Email)
  f.EventType = strings.TrimSpace(f.EventType)
  f.EventDate = strings.TrimSpace(f.EventDate)
  f.Location = strings.TrimSpace(f.Location)
  f.GuestCount = strings.TrimSpace(f.GuestCount)
  f.PackageType = strings.TrimSpace(f.PackageType)
  f.AdditionalInfo = strings.TrimSpace(f.AdditionalInfo)
  return f
}

// formatNaira renders a whole amount with thousands separators.
func formatNaira(d decimal.Decimal) string {
  digits := d.Round(0).Abs().String()
  var out []byte
  for i := range digits {
    if i > 0 && (len(digits)-i)%3 == 0 {
      out = append(out, ',')
    }
    out = append(out, digits[i])
  }
  if d.IsNegative() {
    return "-" + string(out)
  }
  return string(out)
}
