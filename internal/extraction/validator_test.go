package extraction

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
)

var _ = Describe("Validate", func() {
	var (
		receipt     *Receipt
		sale        SaleReference
		isDuplicate DuplicateCheck
		result      ValidationResult
		err         error
	)

	amount := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	date := func(y int, m time.Month, d int) *time.Time {
		t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		return &t
	}

	BeforeEach(func() {
		receipt = &Receipt{
			Amount:       amount("1234.56"),
			Reference:    "ABC123XYZ9",
			TransferDate: date(2024, 3, 15),
			Beneficiary:  "MARIA GUADALUPE LOPEZ",
		}
		sale = SaleReference{
			ID:    "sale-1",
			Total: decimal.RequireFromString("1234.56"),
			Date:  time.Date(2024, 3, 15, 18, 30, 0, 0, time.UTC),
		}
		isDuplicate = func(string) (bool, error) { return false, nil }
	})

	JustBeforeEach(func() {
		result, err = Validate(receipt, sale, isDuplicate)
	})

	When("amount and date both line up", func() {
		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports the amount as matching", func() {
			Expect(result.AmountMatches).To(BeTrue())
		})

		It("ignores time of day when comparing dates", func() {
			Expect(result.SameDayTransfer).To(BeTrue())
		})

		It("reports no duplicate", func() {
			Expect(result.DuplicateReference).To(BeFalse())
		})
	})

	When("the amounts differ by a cent", func() {
		BeforeEach(func() {
			receipt.Amount = amount("1234.55")
		})

		It("reports the amount as not matching", func() {
			Expect(result.AmountMatches).To(BeFalse())
		})
	})

	When("no amount was extracted", func() {
		BeforeEach(func() {
			receipt.Amount = nil
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports the amount as not matching", func() {
			Expect(result.AmountMatches).To(BeFalse())
		})
	})

	When("no transfer date was extracted", func() {
		BeforeEach(func() {
			receipt.TransferDate = nil
		})

		It("reports the transfer as not same-day", func() {
			Expect(result.SameDayTransfer).To(BeFalse())
		})
	})

	When("the transfer happened the day before the sale", func() {
		BeforeEach(func() {
			receipt.TransferDate = date(2024, 3, 14)
		})

		It("reports the transfer as not same-day", func() {
			Expect(result.SameDayTransfer).To(BeFalse())
		})
	})

	When("the reference was already used", func() {
		BeforeEach(func() {
			isDuplicate = func(ref string) (bool, error) {
				return ref == "ABC123XYZ9", nil
			}
		})

		It("flags the duplicate", func() {
			Expect(result.DuplicateReference).To(BeTrue())
		})
	})

	When("no reference was extracted", func() {
		BeforeEach(func() {
			receipt.Reference = ""
			isDuplicate = func(string) (bool, error) {
				return false, errors.New("should not be called")
			}
		})

		It("skips the duplicate lookup", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(result.DuplicateReference).To(BeFalse())
		})
	})

	When("the duplicate lookup fails", func() {
		var lookupErr error

		BeforeEach(func() {
			lookupErr = errors.New("store unavailable")
			isDuplicate = func(string) (bool, error) { return false, lookupErr }
		})

		It("returns the error", func() {
			Expect(err).To(MatchError(lookupErr))
		})
	})

	When("the expected account holder matches despite OCR casing", func() {
		BeforeEach(func() {
			sale.AccountHolder = "Maria Lopez"
		})

		It("reports the beneficiary as matching", func() {
			Expect(result.BeneficiaryMatches).To(BeTrue())
		})
	})

	When("the expected account holder is someone else", func() {
		BeforeEach(func() {
			sale.AccountHolder = "Pedro Ramirez"
		})

		It("reports the beneficiary as not matching", func() {
			Expect(result.BeneficiaryMatches).To(BeFalse())
		})
	})

	When("no account holder is supplied", func() {
		It("reports the beneficiary as not matching", func() {
			Expect(result.BeneficiaryMatches).To(BeFalse())
		})
	})

	When("the sale reference has no total", func() {
		BeforeEach(func() {
			sale.Total = decimal.Zero
		})

		It("fails fast instead of answering false", func() {
			Expect(err).To(MatchError(ErrInvalidSaleReference))
		})
	})

	When("the sale reference has no date", func() {
		BeforeEach(func() {
			sale.Date = time.Time{}
		})

		It("fails fast instead of answering false", func() {
			Expect(err).To(MatchError(ErrInvalidSaleReference))
		})
	})
})
