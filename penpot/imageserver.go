package penpot

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
)

// ImageServer is a small local http server that exposes exported
// renders, so a caller that cannot consume raw bytes (an LLM tool
// layer) can reference them by url instead.
type ImageServer struct {
	addr string

	stateLock sync.Mutex
	images    map[string]*storedImage
}

type storedImage struct {
	data        []byte
	contentType string
}

func NewImageServer(addr string) *ImageServer {
	return &ImageServer{
		addr:   addr,
		images: map[string]*storedImage{},
	}
}

// Put stores rendered bytes and returns the path they are served at.
func (self *ImageServer) Put(imageId string, data []byte, contentType string) string {
	if contentType == "" {
		contentType = "image/png"
	}
	self.stateLock.Lock()
	defer self.stateLock.Unlock()
	self.images[imageId] = &storedImage{
		data:        data,
		contentType: contentType,
	}
	return fmt.Sprintf("/images/%s", imageId)
}

func (self *ImageServer) Router() *mux.Router {
	router := mux.NewRouter()
	router.HandleFunc("/images/{id}", self.serveImage).Methods("GET")
	return router
}

func (self *ImageServer) serveImage(w http.ResponseWriter, r *http.Request) {
	imageId := mux.Vars(r)["id"]

	self.stateLock.Lock()
	image, ok := self.images[imageId]
	self.stateLock.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", image.contentType)
	w.Write(image.data)
}

// Run serves until the context is canceled.
func (self *ImageServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    self.addr,
		Handler: self.Router(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	glog.Infof("[images]serving on %s\n", self.addr)
	err := server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
