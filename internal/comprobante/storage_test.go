package comprobante

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage *LocalStorage
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		storage, err = NewLocalStorage(filepath.Join(tmpDir, "files"))
		Expect(err).NotTo(HaveOccurred())
	})

	It("creates the base directory", func() {
		_, err := os.Stat(filepath.Join(tmpDir, "files"))
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Save and Get", func() {
		It("round-trips file data", func() {
			path, err := storage.Save("recibo.jpg", []byte("image-bytes"))
			Expect(err).NotTo(HaveOccurred())
			Expect(path).To(Equal("recibo.jpg"))

			data, err := storage.Get(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(data).To(Equal([]byte("image-bytes")))
		})
	})

	Describe("Get", func() {
		When("the file does not exist", func() {
			It("returns an error", func() {
				_, err := storage.Get("missing.jpg")
				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("Delete", func() {
		It("removes the file", func() {
			path, err := storage.Save("recibo.jpg", []byte("image-bytes"))
			Expect(err).NotTo(HaveOccurred())

			Expect(storage.Delete(path)).To(Succeed())

			_, err = storage.Get(path)
			Expect(err).To(HaveOccurred())
		})

		When("the file does not exist", func() {
			It("returns an error", func() {
				Expect(storage.Delete("missing.jpg")).NotTo(Succeed())
			})
		})
	})
})
