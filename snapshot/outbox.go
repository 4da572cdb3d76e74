package snapshot

import (
	"time"

	"github.com/xlnfinance/xln-sub004/rdb"
)

type instructionDoc struct {
	Id           string    `yaml:"id"`
	Mode         string    `yaml:"mode"`
	Token        uint32    `yaml:"token"`
	Amount       string    `yaml:"amount"`
	SenderAmount string    `yaml:"sender_amount"`
	TotalFee     string    `yaml:"total_fee"`
	Path         []string  `yaml:"path"`
	Hops         []hopDoc  `yaml:"hops"`
	HashLock     string    `yaml:"hash_lock,omitempty"`
	Secret       string    `yaml:"secret,omitempty"`
	CreatedAt    time.Time `yaml:"created_at"`
}

type hopDoc struct {
	From   string `yaml:"from"`
	To     string `yaml:"to"`
	Amount string `yaml:"amount"`
	Fee    string `yaml:"fee"`
}

func newInstructionDoc(instruction *rdb.PaymentInstruction) *instructionDoc {
	doc := &instructionDoc{
		Id:        instruction.Id,
		Mode:      string(instruction.Mode),
		Token:     uint32(instruction.Token),
		Amount:    instruction.Amount.String(),
		HashLock:  instruction.HashLock,
		Secret:    instruction.Secret,
		CreatedAt: instruction.CreatedAt,
	}

	if route := instruction.Route; route != nil {
		doc.SenderAmount = route.SenderAmount.String()
		doc.TotalFee = route.TotalFee.String()
		doc.Path = route.Display
		for _, hop := range route.Hops {
			doc.Hops = append(doc.Hops, hopDoc{
				From:   string(hop.From),
				To:     string(hop.To),
				Amount: hop.Amount.String(),
				Fee:    hop.Fee.String(),
			})
		}
	}

	return doc
}
