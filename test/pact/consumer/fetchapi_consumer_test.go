//go:build pact
// +build pact

package consumer_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"

	fetchclient "github.com/Apurer/dog-finder/internal/clients/http/fetchapi"
	pacttest "github.com/Apurer/dog-finder/test/pact"
)

func TestFetchDogServiceContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	dog := pacttest.ExampleDogPayload()
	dogMatcher := matchers.Map{
		"id":       matchers.Like(dog["id"]),
		"img":      matchers.Like(dog["img"]),
		"name":     matchers.Like(dog["name"]),
		"age":      matchers.Like(dog["age"]),
		"zip_code": matchers.Like(dog["zip_code"]),
		"breed":    matchers.Like(dog["breed"]),
	}

	pact.AddInteraction().
		UponReceiving("a login request").
		WithRequest("POST", "/auth/login", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(matchers.Map{
				"name":  matchers.Like(pacttest.ExampleName),
				"email": matchers.Like(pacttest.ExampleEmail),
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Set-Cookie", matchers.Regex(
				"fetch-access-token=pact-token; Path=/; HttpOnly",
				"fetch-access-token=[^;]+;.*",
			))
		})

	pact.AddInteraction().
		Given(pacttest.StateBreedsSeeded).
		UponReceiving("a request for all breeds").
		WithRequest("GET", "/dogs/breeds").
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike("Akita", 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateDogsSeeded).
		UponReceiving("a dog search filtered by breed").
		WithRequest("GET", "/dogs/search", func(b *pactconsumer.V2RequestBuilder) {
			b.Query("breeds", matchers.S("Akita"))
			b.Query("size", matchers.S("25"))
			b.Query("sort", matchers.S("breed:asc"))
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"resultIds": matchers.EachLike(pacttest.ExistingDogID, 1),
				"total":     matchers.Like(2),
				"next":      matchers.Like("/dogs/search?size=25&from=25&breeds=Akita&sort=breed%3Aasc"),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateDogsSeeded).
		UponReceiving("a lookup of dogs by id").
		WithRequest("POST", "/dogs", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody([]string{pacttest.ExistingDogID, pacttest.OtherDogID})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.EachLike(dogMatcher, 1))
		})

	pact.AddInteraction().
		Given(pacttest.StateDogsSeeded).
		UponReceiving("a match request for favorite dogs").
		WithRequest("POST", "/dogs/match", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody([]string{pacttest.ExistingDogID, pacttest.OtherDogID})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{"match": matchers.Like(pacttest.ExistingDogID)})
		})

	pact.AddInteraction().
		Given(pacttest.StateAuthenticated).
		UponReceiving("a logout request").
		WithRequest("POST", "/auth/logout").
		WillRespondWith(http.StatusOK)

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		host := config.Host
		if host == "" {
			host = "localhost"
		}
		client, err := fetchclient.NewClient(fmt.Sprintf("http://%s:%d", host, config.Port),
			fetchclient.WithHTTPClient(&http.Client{Timeout: 10 * time.Second}),
		)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := client.Login(ctx, pacttest.ExampleName, pacttest.ExampleEmail); err != nil {
			return fmt.Errorf("login: %w", err)
		}
		if len(client.Cookies()) == 0 {
			return fmt.Errorf("expected login to set the access cookie")
		}

		breeds, err := client.Breeds(ctx)
		if err != nil {
			return fmt.Errorf("breeds: %w", err)
		}
		if len(breeds) == 0 {
			return fmt.Errorf("expected at least one breed")
		}

		size := 25
		page, err := client.Search(ctx, fetchclient.SearchParams{Breeds: []string{"Akita"}, Size: &size, Sort: "breed:asc"})
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		if len(page.ResultIDs) == 0 || page.Next == "" {
			return fmt.Errorf("unexpected search page %+v", page)
		}

		dogs, err := client.Dogs(ctx, []string{pacttest.ExistingDogID, pacttest.OtherDogID})
		if err != nil {
			return fmt.Errorf("dogs: %w", err)
		}
		if len(dogs) == 0 || dogs[0].ID == "" {
			return fmt.Errorf("unexpected dogs %+v", dogs)
		}

		match, err := client.Match(ctx, []string{pacttest.ExistingDogID, pacttest.OtherDogID})
		if err != nil {
			return fmt.Errorf("match: %w", err)
		}
		if match.Match == "" {
			return fmt.Errorf("expected a matched dog id")
		}

		if err := client.Logout(ctx); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		return nil
	})
	require.NoError(t, err)
}
