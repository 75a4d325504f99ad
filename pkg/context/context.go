package context

import (
	"crypto/rand"
	"math"
	"math/big"
	"sync"

	"github.com/pkg/errors"

	"github.com/5l1v3r1/strongswan/internal/logger"
	ike_message "github.com/5l1v3r1/strongswan/pkg/ike/message"
	"github.com/free5gc/util/idgenerator"
)

var ikeContext IkeContext

// IkeContext is the process wide registry of in-flight IKE security
// associations, keyed by the locally owned SPI.
type IkeContext struct {
	IKESA sync.Map // map[uint64]*IkeSa, local SPI as key
}

func IkeSelf() *IkeContext {
	return &ikeContext
}

// IkeSa is one registered IKE security association: its identifier plus the
// sequencer for outbound message ids.
type IkeSa struct {
	LocalSPI uint64
	SaId     *ike_message.IkeSaId

	messageIDGenerator *idgenerator.IDGenerator
}

// NextMessageID hands out outbound message ids in order, starting from
// zero. The id space runs out after the full uint32 range was consumed.
func (ikeSa *IkeSa) NextMessageID() (uint32, error) {
	messageID, err := ikeSa.messageIDGenerator.Allocate()
	if err != nil {
		return 0, errors.Wrapf(ike_message.ErrNoResource, "message id space of SA %s: %v", ikeSa.SaId, err)
	}
	return uint32(messageID), nil
}

// NewIkeSa registers a new security association under a fresh local SPI,
// drawn randomly and retried on collision. The peer's SPI stays zero until
// its first message arrives.
func (ikeCtx *IkeContext) NewIkeSa(initiator bool) (*IkeSa, error) {
	ikeSa := &IkeSa{
		messageIDGenerator: idgenerator.NewGenerator(0, math.MaxUint32),
	}

	maxSPI := new(big.Int).SetUint64(math.MaxUint64)
	var localSPI uint64

	for {
		randomUint64, err := rand.Int(rand.Reader, maxSPI)
		if err != nil {
			logger.ContextLog.Errorf("Generate random IKE SPI failed: %+v", err)
			return nil, errors.Wrap(ike_message.ErrNoResource, "generate random IKE SPI")
		}
		localSPI = randomUint64.Uint64()
		// zero is reserved on the wire
		if localSPI == 0 {
			continue
		}
		if _, duplicate := ikeCtx.IKESA.LoadOrStore(localSPI, ikeSa); !duplicate {
			break
		}
	}

	ikeSa.LocalSPI = localSPI
	if initiator {
		ikeSa.SaId = ike_message.NewIkeSaId(localSPI, 0, true)
	} else {
		ikeSa.SaId = ike_message.NewIkeSaId(0, localSPI, false)
	}

	return ikeSa, nil
}

func (ikeCtx *IkeContext) IkeSaLoad(spi uint64) (*IkeSa, bool) {
	ikeSa, ok := ikeCtx.IKESA.Load(spi)
	if ok {
		return ikeSa.(*IkeSa), ok
	} else {
		return nil, ok
	}
}

func (ikeCtx *IkeContext) DeleteIkeSa(spi uint64) {
	ikeCtx.IKESA.Delete(spi)
}
