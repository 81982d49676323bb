package integration

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/fxamacker/cbor/v2"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kaya2m/BookStoreApp-API/internal/formatter"
	"github.com/kaya2m/BookStoreApp-API/test-integration/bookstore-api/helpers"
)

var _ = Describe("Bookstore API", func() {
	var (
		tempDir string
		server  *helpers.ServerTestHelper
	)

	BeforeEach(func() {
		var err error
		tempDir, err = os.MkdirTemp("", "bookstore-api-test-")
		Expect(err).NotTo(HaveOccurred())

		configPath := helpers.WriteConfigYAML(tempDir, `
versioning:
  defaultVersion: "1.0"
  reportApiVersions: true
  supportedVersions: ["1.0", "1.1"]
cors:
  allowedOrigins: ["https://books.example"]
`)
		server = helpers.NewServerTestHelper(ctx, configPath)
		Expect(server.StartServer()).To(Succeed())
		server.WaitForServerReady(10 * time.Second)
	})

	AfterEach(func() {
		Expect(server.StopServer()).To(Succeed())
		Expect(os.RemoveAll(tempDir)).To(Succeed())
	})

	Context("operational endpoints", func() {
		It("reports readiness without a database", func() {
			resp, err := server.Get("/readiness", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(helpers.ReadBody(resp)).To(ContainSubstring("ready"))
		})

		It("serves the version as CBOR", func() {
			resp, err := server.Get("/version", map[string]string{"Accept": "application/cbor"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal("application/cbor"))

			var info map[string]string
			Expect(cbor.Unmarshal([]byte(helpers.ReadBody(resp)), &info)).To(Succeed())
			Expect(info).To(HaveKey("version"))
		})
	})

	Context("API root", func() {
		It("returns links for the API root JSON media type", func() {
			resp, err := server.Get("/api?api-version=1.0", map[string]string{"Accept": formatter.APIRootJSON})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal(formatter.APIRootJSON))
			Expect(resp.Header.Get("api-supported-versions")).To(Equal("1.0, 1.1"))

			var doc struct {
				Links []struct {
					Href   string `json:"href"`
					Rel    string `json:"rel"`
					Method string `json:"method"`
				} `json:"links"`
			}
			Expect(json.Unmarshal([]byte(helpers.ReadBody(resp)), &doc)).To(Succeed())
			Expect(doc.Links).To(HaveLen(3))
			Expect(doc.Links[0].Href).To(Equal(server.GetBaseURL() + "/api"))
			Expect(doc.Links[2].Rel).To(Equal("create_book"))
		})

		It("returns links for the API root XML media type", func() {
			resp, err := server.Get("/api?api-version=1.1", map[string]string{"Accept": formatter.APIRootXML})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			Expect(resp.Header.Get("Content-Type")).To(Equal(formatter.APIRootXML))
			Expect(helpers.ReadBody(resp)).To(ContainSubstring("<rel>books</rel>"))
		})

		It("answers 204 for plain media types", func() {
			resp, err := server.Get("/api", map[string]string{
				"Accept":      "application/json",
				"api-version": "1.0",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
		})

		It("rejects requests without a version", func() {
			resp, err := server.Get("/api", map[string]string{"Accept": formatter.APIRootJSON})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(helpers.ReadBody(resp)).To(ContainSubstring("ApiVersionUnspecified"))
		})

		It("rejects unsupported versions", func() {
			resp, err := server.Get("/api?api-version=2.0", map[string]string{"Accept": formatter.APIRootJSON})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			Expect(helpers.ReadBody(resp)).To(ContainSubstring("UnsupportedApiVersion"))
		})
	})

	Context("CORS", func() {
		It("answers preflight requests for allowed origins", func() {
			resp, err := server.Do(http.MethodOptions, "/api", map[string]string{
				"Origin":                        "https://books.example",
				"Access-Control-Request-Method": http.MethodGet,
			})
			Expect(err).NotTo(HaveOccurred())
			_ = helpers.ReadBody(resp)
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("https://books.example"))
		})
	})
})
