package rest

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/totegamma/filmpulse"
	"github.com/totegamma/filmpulse/internal/domain"
	"github.com/totegamma/filmpulse/internal/observability"
	"github.com/totegamma/filmpulse/internal/present/rest/middleware"
	"github.com/totegamma/filmpulse/internal/present/rest/presenter"
	"github.com/totegamma/filmpulse/internal/usecase"
)

const Version = "1.0"

// Relay streams program events matching the latest filter set read from input.
type Relay interface {
	Realtime(ctx context.Context, input <-chan []string, output chan<- filmpulse.Event)
}

type Handler struct {
	config  domain.Config
	commit  *usecase.CommitUsecase
	review  *usecase.ReviewUsecase
	account *usecase.AccountUsecase
	faucet  *usecase.FaucetUsecase
	auth    *middleware.AuthMiddleware
	signal  Relay
}

func NewHandler(
	config domain.Config,
	commit *usecase.CommitUsecase,
	review *usecase.ReviewUsecase,
	account *usecase.AccountUsecase,
	faucet *usecase.FaucetUsecase,
	auth *middleware.AuthMiddleware,
	signal Relay,
) *Handler {
	return &Handler{
		config:  config,
		commit:  commit,
		review:  review,
		account: account,
		faucet:  faucet,
		auth:    auth,
		signal:  signal,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/.well-known/filmpulse", h.handleWellKnown)
	e.POST("/commit", h.handleCommit, h.auth.VerifyCommit)
	e.GET("/account/:address", h.handleAccount)
	e.GET("/wallet/:address", h.handleWallet)
	if h.signal != nil {
		e.GET("/realtime", h.handleRealtime)
	}
	if h.config.Faucet && h.faucet != nil {
		e.POST("/faucet/airdrop", h.handleAirdrop)
		e.POST("/faucet/mint", h.handleMint)
	}
}

func (h *Handler) handleWellKnown(c echo.Context) error {
	wellknown := filmpulse.WellKnownFilmpulse{
		Version:   Version,
		ProgramID: h.config.ProgramID.String(),
		Layouts: map[string]int{
			string(domain.AccountKindReview):       h.review.Layout().Size(),
			string(domain.AccountKindVerification): domain.VerificationLayout().Size(),
		},
		Endpoints: map[string]filmpulse.Endpoint{
			"dev.filmpulse.commit": {
				Template: "/commit",
				Method:   "POST",
			},
			"dev.filmpulse.account": {
				Template: "/account/{address}",
				Method:   "GET",
			},
			"dev.filmpulse.wallet": {
				Template: "/wallet/{address}",
				Method:   "GET",
			},
			"dev.filmpulse.realtime": {
				Template: "/realtime",
				Method:   "GET",
			},
		},
	}
	if h.config.Faucet {
		wellknown.Endpoints["dev.filmpulse.faucet.airdrop"] = filmpulse.Endpoint{
			Template: "/faucet/airdrop",
			Method:   "POST",
		}
		wellknown.Endpoints["dev.filmpulse.faucet.mint"] = filmpulse.Endpoint{
			Template: "/faucet/mint",
			Method:   "POST",
		}
	}
	return presenter.OK(c, wellknown)
}

func (h *Handler) handleCommit(c echo.Context) error {
	ctx := c.Request().Context()

	input, ok := middleware.CommitFrom(ctx)
	if !ok {
		return presenter.BadRequestMessage(c, "missing signed document")
	}

	result, err := h.commit.Commit(ctx, input)
	if err != nil {
		return presenter.Error(c, err)
	}

	return presenter.OK(c, result)
}

func (h *Handler) handleAccount(c echo.Context) error {
	ctx := c.Request().Context()

	address, err := filmpulse.ParsePubkey(c.Param("address"))
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	view, err := h.account.Get(ctx, address)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Cached(c, view)
}

type walletResponse struct {
	Address  filmpulse.Pubkey `json:"address"`
	Lamports uint64           `json:"lamports"`
}

func (h *Handler) handleWallet(c echo.Context) error {
	ctx := c.Request().Context()

	address, err := filmpulse.ParsePubkey(c.Param("address"))
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	lamports, err := h.account.WalletBalance(ctx, address)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, walletResponse{Address: address, Lamports: lamports})
}

type AirdropRequest struct {
	Wallet   filmpulse.Pubkey `json:"wallet"`
	Lamports uint64           `json:"lamports"`
}

func (h *Handler) handleAirdrop(c echo.Context) error {
	ctx := c.Request().Context()

	var req AirdropRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.Wallet.IsZero() || req.Lamports == 0 {
		return presenter.BadRequestMessage(c, "wallet and lamports are required")
	}

	balance, err := h.faucet.Airdrop(ctx, req.Wallet, req.Lamports)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, walletResponse{Address: req.Wallet, Lamports: balance})
}

type MintRequest struct {
	Account filmpulse.Pubkey `json:"account"`
	Mint    filmpulse.Pubkey `json:"mint"`
	Owner   filmpulse.Pubkey `json:"owner"`
	Amount  uint64           `json:"amount"`
}

func (h *Handler) handleMint(c echo.Context) error {
	ctx := c.Request().Context()

	var req MintRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.Account.IsZero() || req.Mint.IsZero() || req.Owner.IsZero() {
		return presenter.BadRequestMessage(c, "account, mint and owner are required")
	}

	token, err := h.faucet.MintTo(ctx, req.Account, req.Mint, req.Owner, req.Amount)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, token)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Request struct {
	Type     string   `json:"type"`
	Prefixes []string `json:"prefixes"`
}

func (h *Handler) handleRealtime(c echo.Context) error {
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		observability.LoggerFromContext(c.Request().Context()).Error().
			Err(err).
			Str("module", "socket").
			Msg("failed to upgrade websocket")
		return err
	}
	defer ws.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()
	logger := observability.LoggerFromContext(ctx).With().Str("module", "socket").Logger()

	input := make(chan []string)
	output := make(chan filmpulse.Event)

	go h.signal.Realtime(ctx, input, output)

	quit := make(chan struct{})

	go func() {
		defer close(quit)
		for {
			var req Request
			err := ws.ReadJSON(&req)
			if err != nil {
				wsErr, ok := err.(*websocket.CloseError)
				if ok {
					if !(wsErr.Code == websocket.CloseNormalClosure || wsErr.Code == websocket.CloseGoingAway) {
						logger.Debug().Err(wsErr).Msg("websocket closed")
					}
				} else {
					logger.Error().Err(err).Msg("error reading message")
				}
				return
			}

			switch req.Type {
			case "listen":
				select {
				case input <- req.Prefixes:
				case <-ctx.Done():
					return
				}
				logger.Debug().Strs("prefixes", req.Prefixes).Msg("socket subscribe")
			case "h": // heartbeat
			default:
				logger.Info().Str("type", req.Type).Msg("unknown request type")
			}
		}
	}()

	for {
		select {
		case <-quit:
			return nil
		case event := <-output:
			err := ws.WriteJSON(event)
			if err != nil {
				logger.Error().Err(err).Msg("error writing message")
				return nil
			}
		}
	}
}
