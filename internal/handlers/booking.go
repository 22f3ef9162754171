package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/bidex-org/bidex-backend/internal/services"
)

type BookingHandler struct {
  bookingService    services.BookingService
}

func NewBookingHandler(bookingService services.BookingService) *BookingHandler {
  return &BookingHandler{bookingService: bookingService}
}

func (bh *BookingHandler) CreateBooking(c *gin.Context) {
  var form services.BookingForm
  if err := c.ShouldBindJSON(&form); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  link, err := bh.bookingService.BuildBookingLink(form)
  if err != nil {
    respondError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"whatsapp_url": link})
}

// Options lists the event types and packages the form offers.
func (bh *BookingHandler) Options(c *gin.Context) {
  packages := make([]gin.H, 0, len(services.BookingPackages))
  for _, key := range []string{"full", "half"} {
    p := services.BookingPackages[key]
    packages = append(packages, gin.H{"key": p.Key, "label": p.Label(), "price": p.Price})
  }
  c.JSON(http.StatusOK, gin.H{"event_types": services.EventTypes, "packages": packages})
}
