package notifier

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/osteria-vecchia/reservations-api/internal/models"
)

// Notifier receives the committed reservation record after a successful
// create or cancel. Implementations run fire-and-forget: a delivery failure
// must never roll back the reservation. Email/ICS dispatch lives behind the
// same boundary and is handled by an external collaborator.
type Notifier interface {
	ReservationCreated(reservation models.Reservation, status models.ReservationStatus) error
	ReservationCancelled(reservation models.Reservation) error
}

// DiscordNotifier posts reservation updates to the staff channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(botToken, channelID string) (*DiscordNotifier, error) {
	if botToken == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	if channelID == "" {
		return nil, fmt.Errorf("discord channel ID is empty")
	}
	session, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, err
	}
	return &DiscordNotifier{session: session, channelID: channelID}, nil
}

func (n *DiscordNotifier) ReservationCreated(r models.Reservation, status models.ReservationStatus) error {
	headline := "confirmed ✅"
	if status == models.StatusWaitlist {
		headline = "waitlisted ⏳"
	}

	requestsStr := ""
	if r.SpecialRequests != "" {
		requestsStr = fmt.Sprintf("\n**Requests:** %s", r.SpecialRequests)
	}

	message := fmt.Sprintf("🍽️ **New Reservation (%s)**\n**Guest:** %s\n**When:** %s %s\n**Guests:** %d\n**Code:** %s%s",
		headline,
		r.Name,
		r.Date,
		r.Time,
		r.Guests,
		r.ConfirmationCode,
		requestsStr,
	)

	return n.send(message)
}

func (n *DiscordNotifier) ReservationCancelled(r models.Reservation) error {
	by := "the guest"
	if r.CancelledBy == models.ActorAdmin {
		by = "an admin"
	}
	message := fmt.Sprintf("❌ **Reservation Cancelled** (by %s)\n**Guest:** %s\n**When:** %s %s\n**Guests:** %d\n**Code:** %s",
		by,
		r.Name,
		r.Date,
		r.Time,
		r.Guests,
		r.ConfirmationCode,
	)
	return n.send(message)
}

func (n *DiscordNotifier) send(message string) error {
	_, err := n.session.ChannelMessageSend(n.channelID, message)
	if err != nil {
		log.Printf("Failed to send discord message: %v", err)
		return err
	}
	return nil
}
