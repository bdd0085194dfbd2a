package handlers

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/esportdb/esport-manager/exchange"
	"github.com/esportdb/esport-manager/storage"
)

// ExchangeHandler обслуживает выгрузку и загрузку снапшотов. uploader
// может быть nil — тогда выгрузка остаётся только на диске.
type ExchangeHandler struct {
	exporter   *exchange.Exporter
	importer   *exchange.Importer
	uploader   storage.SnapshotUploader
	exportPath string
	importPath string
	logger     *slog.Logger
}

func NewExchangeHandler(
	exporter *exchange.Exporter,
	importer *exchange.Importer,
	uploader storage.SnapshotUploader,
	exportPath string,
	importPath string,
	logger *slog.Logger,
) *ExchangeHandler {
	return &ExchangeHandler{
		exporter:   exporter,
		importer:   importer,
		uploader:   uploader,
		exportPath: exportPath,
		importPath: importPath,
		logger:     logger,
	}
}

// ExportJSON стримит снапшот прямо в ответ.
func (h *ExchangeHandler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	snap, err := h.exporter.Snapshot(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="snapshot.json"`)
	if err := exchange.EncodeJSON(w, snap); err != nil {
		h.logger.Error("failed to stream snapshot", slog.Any("error", err))
	}
}

// ExportToFiles пишет снапшот на диск (JSON + каталог CSV) и, если
// настроен uploader, отправляет JSON в бакет.
func (h *ExchangeHandler) ExportToFiles(w http.ResponseWriter, r *http.Request) {
	snap, err := h.exporter.Snapshot(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	jsonPath := filepath.Join(h.exportPath, "snapshot.json")
	if err := os.MkdirAll(h.exportPath, 0o755); err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	file, err := os.Create(jsonPath)
	if err != nil {
		serverErrorResponse(w, r, err)
		return
	}
	if err := exchange.EncodeJSON(file, snap); err != nil {
		file.Close()
		serverErrorResponse(w, r, err)
		return
	}
	if err := file.Close(); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	csvDir := filepath.Join(h.exportPath, "csv")
	if err := exchange.WriteCSVDir(csvDir, snap); err != nil {
		serverErrorResponse(w, r, err)
		return
	}

	response := jsonResponse{
		"snapshot_json": jsonPath,
		"csv_dir":       csvDir,
	}

	if h.uploader != nil {
		key := "snapshots/" + time.Now().UTC().Format("20060102T150405Z") + ".json"
		reader, err := os.Open(jsonPath)
		if err != nil {
			serverErrorResponse(w, r, err)
			return
		}
		result, err := h.uploader.Upload(r.Context(), key, "application/json", reader)
		reader.Close()
		if err != nil {
			h.logger.Error("snapshot upload failed", slog.String("key", key), slog.Any("error", err))
			response["upload_error"] = err.Error()
		} else {
			h.logger.Info("snapshot uploaded", slog.String("key", result.Key), slog.String("location", result.Location))
			response["upload"] = result
		}
	}

	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ImportJSON принимает снапшот в теле запроса. atomic=true включает
// режим всё-или-ничего.
func (h *ExchangeHandler) ImportJSON(w http.ResponseWriter, r *http.Request) {
	atomic, err := readAtomicFlag(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.importer.ImportJSON(r.Context(), r.Body, atomic)
	if err != nil {
		if report != nil && atomic {
			// Транзакция откатилась, отчёт объясняет на чём.
			errorResponse(w, r, http.StatusConflict, err.Error())
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ImportCSV загружает каталог CSV-файлов с диска (IMPORT_PATH).
func (h *ExchangeHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	atomic, err := readAtomicFlag(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	report, err := h.importer.ImportCSVDir(r.Context(), h.importPath, atomic)
	if err != nil {
		if report != nil && atomic {
			errorResponse(w, r, http.StatusConflict, err.Error())
			return
		}
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"report": report}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func readAtomicFlag(r *http.Request) (bool, error) {
	value := r.URL.Query().Get("atomic")
	if value == "" {
		return false, nil
	}
	return strconv.ParseBool(value)
}
