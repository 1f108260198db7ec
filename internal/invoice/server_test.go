package invoice

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"
)

// uploadBody builds a multipart body with the given file under the "file" field
func uploadBody(filename string, data []byte) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(data)
		Expect(err).NotTo(HaveOccurred())
	}
	Expect(writer.Close()).To(Succeed())
	return body, writer.FormDataContentType()
}

var _ = Describe("Server", func() {
	var (
		scanner     *mockScanner
		service     *Service
		server      *Server
		auth        BasicAuth
		ghttpServer *ghttp.Server
	)

	setupServer := func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
		server = NewServerWithMux(service, auth, http.NewServeMux())
		ghttpServer = ghttp.NewServer()
		ghttpServer.AppendHandlers(server.ServeHTTP)
	}

	BeforeEach(func() {
		scanner = newMockScanner()
		service = NewService(scanner, io.Discard)
		auth = BasicAuth{}
		setupServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	Describe("handleHealth", func() {
		It("should return status ok", func() {
			resp, err := http.Get(ghttpServer.URL() + "/api/health")
			Expect(err).NotTo(HaveOccurred())
			defer resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			var body map[string]string
			Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
			Expect(body).To(HaveKeyWithValue("status", "ok"))
		})
	})

	Describe("handleParseText", func() {
		When("the text is a CEMIG invoice", func() {
			It("should return the extracted record", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/invoices/text", "text/plain", strings.NewReader(cemigText))
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(resp.Header.Get("Content-Type")).To(Equal("application/json"))

				var record Record
				Expect(json.NewDecoder(resp.Body).Decode(&record)).To(Succeed())
				Expect(record.Layout).To(Equal(LayoutCEMIG))
				Expect(record.HolderName).To(Equal("MARIA DE SOUZA"))
				Expect(record.CompensatedEnergyKWh).To(Equal(150.0))
			})
		})

		When("the text has no known marker", func() {
			It("should return status Unprocessable Entity", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/invoices/text", "text/plain", strings.NewReader("conta de agua"))
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))

				var body map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&body)).To(Succeed())
				Expect(body["error"]).To(ContainSubstring("unrecognized invoice format"))
			})
		})

		When("the body is empty", func() {
			It("should return status Unprocessable Entity", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/invoices/text", "text/plain", nil)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			})
		})
	})

	Describe("handleUploadInvoice", func() {
		When("a PDF is uploaded", func() {
			It("should return the extracted record", func() {
				body, contentType := uploadBody("fatura_cpfl.pdf", []byte("%PDF-1.4"))
				resp, err := http.Post(ghttpServer.URL()+"/api/invoices", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))

				var record map[string]any
				Expect(json.NewDecoder(resp.Body).Decode(&record)).To(Succeed())
				Expect(record).To(HaveKeyWithValue("concessionaria", "CPFL"))
				Expect(record).To(HaveKeyWithValue("numero_instalacao", "123456789"))
				Expect(record).To(HaveKeyWithValue("tarifa_total_aneel_pendente", true))
			})
		})

		When("the file is not a PDF", func() {
			It("should return status Bad Request", func() {
				body, contentType := uploadBody("foto.png", []byte("png"))
				resp, err := http.Post(ghttpServer.URL()+"/api/invoices", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})

		When("no file is sent", func() {
			It("should return status Bad Request", func() {
				body, contentType := uploadBody("", nil)
				resp, err := http.Post(ghttpServer.URL()+"/api/invoices", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))

				var errBody map[string]string
				Expect(json.NewDecoder(resp.Body).Decode(&errBody)).To(Succeed())
				Expect(errBody["error"]).To(Equal("No file provided"))
			})
		})

		When("the PDF cannot be read", func() {
			BeforeEach(func() {
				scanner.scanErr = errors.New("opening PDF: broken")
			})

			It("should return status Unprocessable Entity", func() {
				body, contentType := uploadBody("fatura.pdf", []byte("garbage"))
				resp, err := http.Post(ghttpServer.URL()+"/api/invoices", contentType, body)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnprocessableEntity))
			})
		})
	})

	Describe("CORS", func() {
		It("should answer preflight requests", func() {
			req, err := http.NewRequest(http.MethodOptions, ghttpServer.URL()+"/api/invoices", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := http.DefaultClient.Do(req)
			Expect(err).NotTo(HaveOccurred())
			resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusNoContent))
			Expect(resp.Header.Get("Access-Control-Allow-Origin")).To(Equal("*"))
		})
	})

	Describe("basic auth", func() {
		BeforeEach(func() {
			auth = BasicAuth{Username: "user", Password: "pass"}
			setupServer()
		})

		When("credentials are missing", func() {
			It("should return status Unauthorized", func() {
				resp, err := http.Post(ghttpServer.URL()+"/api/invoices/text", "text/plain", strings.NewReader(cemigText))
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
				Expect(resp.Header.Get("WWW-Authenticate")).To(ContainSubstring("Basic"))
			})
		})

		When("the password is wrong", func() {
			It("should return status Unauthorized", func() {
				req, err := http.NewRequest(http.MethodPost, ghttpServer.URL()+"/api/invoices/text", strings.NewReader(cemigText))
				Expect(err).NotTo(HaveOccurred())
				req.SetBasicAuth("user", "passw")
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			})
		})

		When("the header is not basic auth", func() {
			It("should return status Unauthorized", func() {
				req, err := http.NewRequest(http.MethodPost, ghttpServer.URL()+"/api/invoices/text", strings.NewReader(cemigText))
				Expect(err).NotTo(HaveOccurred())
				req.Header.Set("Authorization", "Bearer user:pass")
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
			})
		})

		When("credentials are valid", func() {
			It("should return status OK", func() {
				req, err := http.NewRequest(http.MethodPost, ghttpServer.URL()+"/api/invoices/text", strings.NewReader(cemigText))
				Expect(err).NotTo(HaveOccurred())
				req.SetBasicAuth("user", "pass")
				resp, err := http.DefaultClient.Do(req)
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
			})
		})

		When("checking health", func() {
			It("should not require credentials", func() {
				resp, err := http.Get(ghttpServer.URL() + "/api/health")
				Expect(err).NotTo(HaveOccurred())
				resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
			})
		})
	})
})
