package catastro_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"inmoscan/internal/pkg/catastro"
	"inmoscan/internal/testhelpers"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
)

var _ = Describe("Client", func() {
	const reference = "9872023VH5797S0001WX"

	var (
		client *catastro.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		testhelpers.Activate()

		client = catastro.New(5*time.Second, zerolog.New(io.Discard))
		client.UseDefaultClient()
		ctx = context.Background()
	})

	AfterEach(func() {
		testhelpers.Deactivate()
	})

	Describe("Fetch", func() {
		It("maps a well-formed response", func() {
			testhelpers.Catastro(reference).
				Reply(200).
				Body(testhelpers.MustLoadFixture("catastro_full.json")).
				Header("Content-Type", "application/json")

			record := client.Fetch(ctx, reference)
			Expect(testhelpers.IsDone()).To(BeTrue())

			Expect(record).To(Equal(catastro.Record{
				Class:    "Residencial",
				Year:     "1960",
				Area:     "85",
				Floor:    "02, A",
				Location: "ALCALA",
				Province: "MADRID",
				City:     "MADRID",
				District: "28014",
			}))
		})

		It("sends the JSON accept header", func() {
			testhelpers.Catastro(reference).Reply(200).Body(testhelpers.MustLoadFixture("catastro_full.json"))

			client.Fetch(ctx, reference)

			Expect(testhelpers.DefaultTransport.Requests).To(HaveLen(1))
			Expect(testhelpers.DefaultTransport.Requests[0].Header.Get("Accept")).To(Equal("application/json"))
		})

		It("defaults missing leaves and accepts numeric scalars", func() {
			testhelpers.Catastro(reference).Reply(200).Body(testhelpers.MustLoadFixture("catastro_partial.json"))

			record := client.Fetch(ctx, reference)

			Expect(record).To(Equal(catastro.Record{
				Class:    "Industrial",
				Year:     catastro.NotAvailable,
				Area:     "1250.75",
				Floor:    "N/A, N/A",
				Location: catastro.NotAvailable,
				Province: "VALENCIA",
				City:     "46250",
				District: catastro.NotAvailable,
			}))
		})

		It("treats a zero construction year as unavailable", func() {
			testhelpers.Catastro(reference).Reply(200).
				BodyString(`{"consulta_dnprcResult":{"bico":{"bi":{"debi":{"ant":"0","sfc":"0"}}}}}`)

			record := client.Fetch(ctx, reference)
			Expect(record.Year).To(Equal(catastro.NotAvailable))
			Expect(record.Area).To(Equal(catastro.NotAvailable))
			Expect(record.Floor).To(Equal("N/A, N/A"))
		})

		DescribeTable("returns an all N/A record when the lookup fails",
			func(register func()) {
				register()

				Expect(client.Fetch(ctx, reference)).To(Equal(catastro.Unavailable()))
			},
			Entry("registry error list", func() {
				testhelpers.Catastro(reference).Reply(200).Body(testhelpers.MustLoadFixture("catastro_not_found.json"))
			}),
			Entry("missing result", func() {
				testhelpers.Catastro(reference).Reply(200).BodyString(`{"something":"else"}`)
			}),
			Entry("bico without bi", func() {
				testhelpers.Catastro(reference).Reply(200).BodyString(`{"consulta_dnprcResult":{"bico":{}}}`)
			}),
			Entry("multiple matches list", func() {
				testhelpers.Catastro(reference).Reply(200).BodyString(`{"consulta_dnprcResult":{"lrcdnp":{"rcdnp":[]}}}`)
			}),
			Entry("invalid JSON", func() {
				testhelpers.Catastro(reference).Reply(200).BodyString(`<html>maintenance</html>`)
			}),
			Entry("unexpected scalar type", func() {
				testhelpers.Catastro(reference).Reply(200).BodyString(`{"consulta_dnprcResult":{"bico":{"bi":{"dt":{"np":true}}}}}`)
			}),
			Entry("server error", func() {
				testhelpers.Catastro(reference).Reply(http.StatusInternalServerError).BodyString("internal error")
			}),
			Entry("network error", func() {
				testhelpers.Catastro(reference).ReplyError(errors.New("connection reset by peer"))
			}),
			Entry("no upstream match", func() {}),
		)

		It("returns an all N/A record when the context is done", func() {
			testhelpers.Catastro(reference).Reply(200).Body(testhelpers.MustLoadFixture("catastro_full.json"))

			cancelled, cancel := context.WithCancel(ctx)
			cancel()

			Expect(client.Fetch(cancelled, reference)).To(Equal(catastro.Unavailable()))
		})

		It("returns an all N/A record when the registry is slower than the timeout", func() {
			client = catastro.New(50*time.Millisecond, zerolog.New(io.Discard))
			client.UseDefaultClient()
			testhelpers.Catastro(reference).
				Reply(200).
				Body(testhelpers.MustLoadFixture("catastro_full.json")).
				Delay(5 * time.Second)

			start := time.Now()
			record := client.Fetch(ctx, reference)

			Expect(record).To(Equal(catastro.Unavailable()))
			Expect(time.Since(start)).To(BeNumerically("<", 2*time.Second))
		})

		It("escapes the reference in the query string", func() {
			testhelpers.Catastro("AB 12&3").Reply(200).Body(testhelpers.MustLoadFixture("catastro_full.json"))

			record := client.Fetch(ctx, "AB 12&3")
			Expect(testhelpers.IsDone()).To(BeTrue())
			Expect(record.Class).To(Equal("Residencial"))
		})
	})
})
