package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"api_notaria/src/config"
	"api_notaria/src/pdf"
	"api_notaria/src/utils"
)

// EnvioWhatsApp identifica el documento subido y el mensaje enviado.
type EnvioWhatsApp struct {
	MediaID   string `json:"mediaId"`
	MensajeID string `json:"mensajeId"`
	Telefono  string `json:"telefono"`
}

// WhatsAppService envía documentos PDF por la API de WhatsApp Cloud.
type WhatsAppService struct {
	cfg          config.WhatsAppConfig
	http         *http.Client
	recibos      ReciboRepository
	presupuestos PresupuestoRepository
	notaria      string
}

func NewWhatsAppService(cfg config.WhatsAppConfig, recibos ReciboRepository, presupuestos PresupuestoRepository, notaria string) *WhatsAppService {
	return &WhatsAppService{
		cfg:          cfg,
		http:         &http.Client{Timeout: 30 * time.Second},
		recibos:      recibos,
		presupuestos: presupuestos,
		notaria:      notaria,
	}
}

// NormalizarTelefono acepta 10 dígitos nacionales (o con lada 52) y devuelve el formato internacional.
func NormalizarTelefono(telefono string) (string, error) {
	t := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "+", "").Replace(strings.TrimSpace(telefono))
	if len(t) == 12 && strings.HasPrefix(t, "52") {
		t = t[2:]
	}
	if !utils.CelularValido(t) {
		return "", utils.NewValidationError("telefono", "El teléfono debe ser un celular de 10 dígitos")
	}
	return "52" + t, nil
}

// EnviarRecibo genera el PDF del recibo y lo envía al teléfono indicado.
func (svc *WhatsAppService) EnviarRecibo(ctx context.Context, numero int, telefono string) (EnvioWhatsApp, error) {
	if !svc.cfg.Habilitado() {
		return EnvioWhatsApp{}, fmt.Errorf("whatsapp: %w", utils.ErrNoConfigurado)
	}
	r, err := svc.recibos.ObtenerPorNumero(ctx, numero)
	if err != nil {
		return EnvioWhatsApp{}, err
	}
	doc, err := pdf.Recibo(svc.notaria, r)
	if err != nil {
		return EnvioWhatsApp{}, err
	}
	caption := fmt.Sprintf("Recibo %06d del trámite %s", r.NumeroRecibo, r.NumeroTramite)
	return svc.EnviarDocumento(ctx, telefono, fmt.Sprintf("recibo_%06d.pdf", r.NumeroRecibo), caption, doc)
}

// EnviarPresupuesto genera el PDF del presupuesto y lo envía al teléfono indicado.
func (svc *WhatsAppService) EnviarPresupuesto(ctx context.Context, id string, telefono string) (EnvioWhatsApp, error) {
	if !svc.cfg.Habilitado() {
		return EnvioWhatsApp{}, fmt.Errorf("whatsapp: %w", utils.ErrNoConfigurado)
	}
	p, err := svc.presupuestos.ObtenerPorID(ctx, id)
	if err != nil {
		return EnvioWhatsApp{}, err
	}
	doc, err := pdf.Presupuesto(svc.notaria, p)
	if err != nil {
		return EnvioWhatsApp{}, err
	}
	return svc.EnviarDocumento(ctx, telefono, "presupuesto_"+p.ID.Hex()+".pdf", "Presupuesto de "+p.TipoTramite, doc)
}

// EnviarDocumento sube el PDF como media y después manda el mensaje de tipo document.
func (svc *WhatsAppService) EnviarDocumento(ctx context.Context, telefono, archivo, caption string, doc []byte) (EnvioWhatsApp, error) {
	destino, err := NormalizarTelefono(telefono)
	if err != nil {
		return EnvioWhatsApp{}, err
	}
	mediaID, err := svc.subirMedia(ctx, archivo, doc)
	if err != nil {
		return EnvioWhatsApp{}, err
	}

	mensaje := map[string]any{
		"messaging_product": "whatsapp",
		"recipient_type":    "individual",
		"to":                destino,
		"type":              "document",
		"document": map[string]string{
			"id":       mediaID,
			"filename": archivo,
			"caption":  caption,
		},
	}
	data, err := json.Marshal(mensaje)
	if err != nil {
		return EnvioWhatsApp{}, err
	}
	var resp struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := svc.enviar(ctx, "/messages", "application/json", bytes.NewReader(data), &resp); err != nil {
		return EnvioWhatsApp{}, err
	}
	envio := EnvioWhatsApp{MediaID: mediaID, Telefono: destino}
	if len(resp.Messages) > 0 {
		envio.MensajeID = resp.Messages[0].ID
	}
	log.Printf("📲 %s enviado por WhatsApp a %s", archivo, destino)
	return envio, nil
}

func (svc *WhatsAppService) subirMedia(ctx context.Context, archivo string, doc []byte) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("messaging_product", "whatsapp")
	_ = w.WriteField("type", "application/pdf")

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, archivo))
	h.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(h)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(doc); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := svc.enviar(ctx, "/media", w.FormDataContentType(), &body, &resp); err != nil {
		return "", err
	}
	if resp.ID == "" {
		return "", &utils.UpstreamError{Servicio: "WhatsApp", Status: http.StatusOK, Cuerpo: "respuesta sin id de media"}
	}
	return resp.ID, nil
}

func (svc *WhatsAppService) enviar(ctx context.Context, ruta, contentType string, body io.Reader, destino any) error {
	endpoint := strings.TrimRight(svc.cfg.APIURL, "/") + "/" + svc.cfg.PhoneID + ruta
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+svc.cfg.Token)
	req.Header.Set("Content-Type", contentType)

	resp, err := svc.http.Do(req)
	if err != nil {
		return fmt.Errorf("llamando a WhatsApp: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("leyendo respuesta de WhatsApp: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &utils.UpstreamError{Servicio: "WhatsApp", Status: resp.StatusCode, Cuerpo: string(data)}
	}
	if err := json.Unmarshal(data, destino); err != nil {
		return fmt.Errorf("decodificando respuesta de WhatsApp: %w", err)
	}
	return nil
}

