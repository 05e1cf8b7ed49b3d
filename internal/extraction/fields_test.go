package extraction

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("extractAmount", func() {
	var (
		text   string
		amount *decimal.Decimal
	)

	JustBeforeEach(func() {
		amount = extractAmount(text)
	})

	When("the text carries a $-prefixed grouped amount", func() {
		BeforeEach(func() {
			text = "Total enviado $1,234.56 el dia de hoy"
		})

		It("strips the grouping commas", func() {
			Expect(amount).NotTo(BeNil())
			Expect(amount.Equal(decimal.RequireFromString("1234.56"))).To(BeTrue())
		})
	})

	When("only a labeled amount is present", func() {
		BeforeEach(func() {
			text = "Monto: 750.50"
		})

		It("extracts the labeled value", func() {
			Expect(amount).NotTo(BeNil())
			Expect(amount.Equal(decimal.RequireFromString("750.50"))).To(BeTrue())
		})
	})

	When("only a bare grouped amount with cents is present", func() {
		BeforeEach(func() {
			text = "se abonaron 12,000.00 a la cuenta"
		})

		It("extracts the bare value", func() {
			Expect(amount).NotTo(BeNil())
			Expect(amount.Equal(decimal.RequireFromString("12000.00"))).To(BeTrue())
		})
	})

	When("the amount is marked by a currency suffix", func() {
		BeforeEach(func() {
			text = "importe total 980 MXN"
		})

		It("extracts the suffixed value", func() {
			Expect(amount).NotTo(BeNil())
			Expect(amount.Equal(decimal.RequireFromString("980"))).To(BeTrue())
		})
	})

	When("no pattern matches", func() {
		BeforeEach(func() {
			text = "comprobante sin cifras"
		})

		It("reports absence", func() {
			Expect(amount).To(BeNil())
		})
	})
})

var _ = Describe("extractReference", func() {
	var (
		text      string
		reference string
	)

	JustBeforeEach(func() {
		reference = extractReference(text)
	})

	When("a labeled reference and a bare token are both present", func() {
		BeforeEach(func() {
			text = "numero interno Z9Y8X7W6V5U4\nReferencia: ABC123XYZ9"
		})

		It("prefers the labeled reference", func() {
			Expect(reference).To(Equal("ABC123XYZ9"))
		})
	})

	When("only a bare alphanumeric token is present", func() {
		BeforeEach(func() {
			text = "transaccion bancaria 12ABCD34EF completada"
		})

		It("falls back to the bare token", func() {
			Expect(reference).To(Equal("12ABCD34EF"))
		})
	})

	When("the only long tokens are plain words", func() {
		BeforeEach(func() {
			text = "transferencia interbancaria completada"
		})

		It("reports absence", func() {
			Expect(reference).To(BeEmpty())
		})
	})

	When("a folio label is used", func() {
		BeforeEach(func() {
			text = "Folio: 00012345"
		})

		It("extracts the folio", func() {
			Expect(reference).To(Equal("00012345"))
		})
	})
})

var _ = Describe("extractDate", func() {
	var (
		text string
		date *time.Time
	)

	JustBeforeEach(func() {
		date = extractDate(text)
	})

	When("the date is day/month/year", func() {
		BeforeEach(func() {
			text = "Fecha de operacion: 15/03/2024"
		})

		It("extracts the calendar date", func() {
			Expect(date).NotTo(BeNil())
			Expect(*date).To(Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the date is year/month/day", func() {
		BeforeEach(func() {
			text = "Fecha: 2024/03/15"
		})

		It("extracts the calendar date", func() {
			Expect(date).NotTo(BeNil())
			Expect(*date).To(Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the date is written with a Spanish month name", func() {
		BeforeEach(func() {
			text = "realizada el 15 de marzo de 2024"
		})

		It("extracts the same calendar date", func() {
			Expect(date).NotTo(BeNil())
			Expect(*date).To(Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the month name is capitalized", func() {
		BeforeEach(func() {
			text = "1 de Diciembre de 2023"
		})

		It("matches the month case-insensitively", func() {
			Expect(date).NotTo(BeNil())
			Expect(*date).To(Equal(time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("the date is dotted", func() {
		BeforeEach(func() {
			text = "15.03.2024"
		})

		It("extracts the calendar date", func() {
			Expect(date).NotTo(BeNil())
			Expect(*date).To(Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("an impossible date precedes a valid one", func() {
		BeforeEach(func() {
			text = "corte 99/99/2024, pagado el 15 de marzo de 2024"
		})

		It("skips the impossible combination", func() {
			Expect(date).NotTo(BeNil())
			Expect(*date).To(Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))
		})
	})

	When("day thirty-two is the only candidate", func() {
		BeforeEach(func() {
			text = "32/01/2024"
		})

		It("reports absence instead of normalizing", func() {
			Expect(date).To(BeNil())
		})
	})

	When("no date appears", func() {
		BeforeEach(func() {
			text = "sin fecha"
		})

		It("reports absence", func() {
			Expect(date).To(BeNil())
		})
	})
})

var _ = Describe("extractSenderAccount", func() {
	var (
		lines   []string
		account string
	)

	JustBeforeEach(func() {
		account = extractSenderAccount(lines)
	})

	When("origin and destination accounts both appear", func() {
		BeforeEach(func() {
			lines = []string{
				"Cuenta destino: 9999888877776666",
				"Cuenta origen: 1234 **** 5678",
			}
		})

		It("prefers the origin-marked line", func() {
			Expect(account).To(Equal("1234 **** 5678"))
		})
	})

	When("no contextual line matches", func() {
		BeforeEach(func() {
			lines = []string{
				"comprobante",
				"tarjeta 1234567890123456",
			}
		})

		It("falls back to scanning every line", func() {
			Expect(account).To(Equal("1234567890123456"))
		})
	})

	When("a masked candidate has too few digits", func() {
		BeforeEach(func() {
			lines = []string{"tarjeta **** 5678"}
		})

		It("reports absence", func() {
			Expect(account).To(BeEmpty())
		})
	})

	When("no account shape appears", func() {
		BeforeEach(func() {
			lines = []string{"sin cuenta"}
		})

		It("reports absence", func() {
			Expect(account).To(BeEmpty())
		})
	})
})

var _ = Describe("extractBeneficiary", func() {
	var (
		lines       []string
		beneficiary string
	)

	JustBeforeEach(func() {
		beneficiary = extractBeneficiary(lines)
	})

	When("a labeled beneficiary appears", func() {
		BeforeEach(func() {
			lines = []string{"Beneficiario: MARIA GUADALUPE LOPEZ"}
		})

		It("extracts the name", func() {
			Expect(beneficiary).To(Equal("MARIA GUADALUPE LOPEZ"))
		})
	})

	When("the a-favor-de label is used", func() {
		BeforeEach(func() {
			lines = []string{"A favor de: COMERCIAL DEL CENTRO SA"}
		})

		It("extracts the name", func() {
			Expect(beneficiary).To(Equal("COMERCIAL DEL CENTRO SA"))
		})
	})

	When("an unlabeled name appears", func() {
		BeforeEach(func() {
			lines = []string{"MARIA GUADALUPE LOPEZ"}
		})

		It("reports absence rather than guessing", func() {
			Expect(beneficiary).To(BeEmpty())
		})
	})

	When("the labeled name is too short", func() {
		BeforeEach(func() {
			lines = []string{"Beneficiario: SA"}
		})

		It("reports absence", func() {
			Expect(beneficiary).To(BeEmpty())
		})
	})
})
