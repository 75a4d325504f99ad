package message

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// IkeSaId identifies the IKE security association a message belongs to: the
// two SPIs from the fixed header plus the local role in the exchange.
type IkeSaId struct {
	InitiatorSPI uint64
	ResponderSPI uint64
	Initiator    bool
}

func NewIkeSaId(initiatorSPI, responderSPI uint64, initiator bool) *IkeSaId {
	return &IkeSaId{
		InitiatorSPI: initiatorSPI,
		ResponderSPI: responderSPI,
		Initiator:    initiator,
	}
}

// Clone returns an independent deep copy of the identifier.
func (saId *IkeSaId) Clone() *IkeSaId {
	return deepcopy.Copy(saId).(*IkeSaId)
}

func (saId *IkeSaId) Equal(other *IkeSaId) bool {
	if other == nil {
		return false
	}
	return saId.InitiatorSPI == other.InitiatorSPI &&
		saId.ResponderSPI == other.ResponderSPI &&
		saId.Initiator == other.Initiator
}

func (saId *IkeSaId) String() string {
	return fmt.Sprintf("%016x_i %016x_r", saId.InitiatorSPI, saId.ResponderSPI)
}
