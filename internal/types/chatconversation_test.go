package types

import (
  "testing"

  "github.com/stretchr/testify/assert"
)

func TestConversationProfileRoundTrip(t *testing.T) {
  conv := &ChatConversation{}
  conv.SetProfile(CustomerProfile{Name: "Alice", EventType: "Wedding"})

  assert.Equal(t, "Alice", conv.CustomerName)
  assert.Nil(t, conv.CustomerEmail)
  assert.Nil(t, conv.EventLocation)
  assert.Equal(t, CustomerProfile{Name: "Alice", EventType: "Wedding"}, conv.Profile())
}

func TestConversationAnonymousName(t *testing.T) {
  conv := &ChatConversation{}
  conv.SetProfile(CustomerProfile{Email: "a@b.co"})

  assert.Equal(t, AnonymousCustomer, conv.CustomerName)
  assert.Equal(t, "", conv.Profile().Name)
  assert.Equal(t, "a@b.co", conv.Profile().Email)
}
