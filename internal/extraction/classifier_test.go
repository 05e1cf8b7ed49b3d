package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Classify", func() {
	var (
		engine *Engine
		text   string
		result ClassificationResult
	)

	BeforeEach(func() {
		engine = NewEngine()
	})

	JustBeforeEach(func() {
		result = engine.Classify(text)
	})

	When("a known alias appears in the text", func() {
		BeforeEach(func() {
			text = "Gracias por usar Banorte\nTransferencia exitosa"
		})

		It("identifies the bank", func() {
			Expect(result.Bank).To(Equal(BankBanorte))
		})

		It("selects the generic layout", func() {
			Expect(result.Layout).To(Equal(LayoutGeneric))
		})
	})

	When("matching is case-insensitive", func() {
		BeforeEach(func() {
			text = "enviado desde scotiabank movil"
		})

		It("identifies the bank", func() {
			Expect(result.Bank).To(Equal(BankScotiabank))
		})
	})

	When("an alias maps to its parent institution", func() {
		BeforeEach(func() {
			text = "Banamex - comprobante de pago"
		})

		It("resolves the alias", func() {
			Expect(result.Bank).To(Equal(BankCitibanamex))
		})
	})

	When("no alias appears", func() {
		BeforeEach(func() {
			text = "comprobante de pago electronico"
		})

		It("reports the bank as unknown", func() {
			Expect(result.Bank).To(Equal(BankUnknown))
		})

		It("still selects the generic layout", func() {
			Expect(result.Layout).To(Equal(LayoutGeneric))
		})
	})

	When("a Nu alias appears without the layout signature", func() {
		BeforeEach(func() {
			text = "Enviado desde Nubank"
		})

		It("routes to the specialized layout", func() {
			Expect(result.Bank).To(Equal(BankNu))
			Expect(result.Layout).To(Equal(LayoutNu))
		})
	})

	When("the layout signature appears without any alias", func() {
		BeforeEach(func() {
			text = "Cuenta destino\nCLABE 012345678901234567\nCuenta de origen\nClave de rastreo AAA111222333"
		})

		It("short-circuits to Nu", func() {
			Expect(result.Bank).To(Equal(BankNu))
			Expect(result.Layout).To(Equal(LayoutNu))
		})
	})

	When("the layout signature is incomplete", func() {
		BeforeEach(func() {
			text = "Cuenta destino\nCuenta de origen\nSantander"
		})

		It("classifies by alias instead", func() {
			Expect(result.Bank).To(Equal(BankSantander))
			Expect(result.Layout).To(Equal(LayoutGeneric))
		})
	})

	When("several aliases appear", func() {
		BeforeEach(func() {
			text = "Santander BBVA"
		})

		It("returns the first institution in table order", func() {
			Expect(result.Bank).To(Equal(BankBBVA))
		})
	})
})
