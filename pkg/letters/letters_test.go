package letters

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admisia-go-api/internal/models"
	"github.com/noah-isme/admisia-go-api/internal/service"
)

type uploaderStub struct {
	name string
	body []byte
	err  error
}

func (u *uploaderStub) Upload(_ context.Context, name string, reader io.Reader) (string, error) {
	if u.err != nil {
		return "", u.err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	u.name = name
	u.body = body
	return "https://cdn.example.com/" + name, nil
}

func testApplication() models.Application {
	return models.Application{
		ID:       42,
		FullName: "Ada Lovelace",
		Program:  models.Program{Name: "BSc Computer Science"},
	}
}

func TestGenerateOfferLetter(t *testing.T) {
	stub := &uploaderStub{}
	generator := NewWithUploader(stub, zerolog.New(io.Discard))

	offer := &models.FinancialOffer{
		TuitionFee:      3750,
		DiscountAmount:  1250,
		PaymentDeadline: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	url, err := generator.Generate(context.Background(), service.DocumentOfferLetter, testApplication(), offer)
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/offer_letter-application-42.html", url)

	body := string(stub.body)
	require.Contains(t, body, "Offer of Admission")
	require.Contains(t, body, "Ada Lovelace")
	require.Contains(t, body, "BSc Computer Science")
	require.Contains(t, body, "3750.00")
	require.Contains(t, body, "1250.00")
	require.Contains(t, body, "1 March 2026")
}

func TestGenerateAdmissionLetter(t *testing.T) {
	stub := &uploaderStub{}
	generator := NewWithUploader(stub, zerolog.New(io.Discard))

	url, err := generator.Generate(context.Background(), service.DocumentAdmissionLetter, testApplication(), nil)
	require.NoError(t, err)
	require.Contains(t, url, "admission_letter-application-42")
	require.Contains(t, string(stub.body), "Letter of Enrollment")
}

func TestGenerateUploadFailure(t *testing.T) {
	stub := &uploaderStub{err: errors.New("storage unavailable")}
	generator := NewWithUploader(stub, zerolog.New(io.Discard))

	_, err := generator.Generate(context.Background(), service.DocumentOfferLetter, testApplication(), nil)
	require.Error(t, err)
}

func TestBuildPublicIDStablePerLetter(t *testing.T) {
	first := buildPublicID("offer_letter-application-42.html")
	second := buildPublicID("offer_letter-application-42.html")

	require.Equal(t, "offer-letter-application-42", first)
	require.Equal(t, first, second, "regenerating must overwrite the same artifact")

	require.Equal(t, "letter", buildPublicID("///.html"))
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(Config{}, zerolog.New(io.Discard))
	require.Error(t, err)
}
