package worker

import (
	"context"
	"fmt"
	"log"
	"time"

	"borderpay-payment-api/queue"
	"borderpay-payment-api/services/payment"
	"borderpay-payment-api/services/payment/processorapi"
	"borderpay-payment-api/services/track"
	"borderpay-payment-api/services/transfer"
)

// Worker drains the job queue in the background. Foreground user actions
// stay synchronous; only post-acknowledgment follow-ups (webhook events,
// transfer status refreshes, abandoned pre-auth cancellation) land here.
type Worker struct {
	queue           *queue.Queue
	paymentService  *payment.Service
	transferService *transfer.Service
	shutdown        chan struct{}
	isRunning       bool
}

func NewWorker(q *queue.Queue, ps *payment.Service, ts *transfer.Service) *Worker {
	return &Worker{
		queue:           q,
		paymentService:  ps,
		transferService: ts,
		shutdown:        make(chan struct{}),
	}
}

// Start launches the worker goroutines plus the delayed-job promoter.
func (w *Worker) Start(concurrency int) {
	w.isRunning = true

	for i := 0; i < concurrency; i++ {
		go w.processJobs(i)
	}
	go w.promoteDelayedJobs()

	log.Printf("Started %d worker goroutines", concurrency)
}

func (w *Worker) Stop() {
	if !w.isRunning {
		return
	}

	log.Println("Stopping worker...")
	close(w.shutdown)
	w.isRunning = false
}

func (w *Worker) processJobs(workerID int) {
	log.Printf("Worker %d starting", workerID)

	for {
		select {
		case <-w.shutdown:
			log.Printf("Worker %d shutting down", workerID)
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			job, err := w.queue.Dequeue(ctx, 5*time.Second)
			cancel()

			if err != nil {
				log.Printf("Worker %d: Error dequeuing job: %v", workerID, err)
				time.Sleep(time.Second)
				continue
			}

			if job == nil {
				time.Sleep(100 * time.Millisecond)
				continue
			}

			log.Printf("Worker %d processing job %s of type %s", workerID, job.ID, job.Type)

			if jobErr := w.processJob(job); jobErr != nil {
				log.Printf("Worker %d: Error processing job %s: %v", workerID, job.ID, jobErr)

				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				if failErr := w.queue.FailJob(ctx, job, jobErr); failErr != nil {
					log.Printf("Worker %d: Error marking job %s as failed: %v", workerID, job.ID, failErr)
				}
				cancel()
				continue
			}

			ctx, cancel = context.WithTimeout(context.Background(), 5*time.Second)
			if err := w.queue.CompleteJob(ctx, job); err != nil {
				log.Printf("Worker %d: Error completing job %s: %v", workerID, job.ID, err)
			}
			cancel()
		}
	}
}

func (w *Worker) promoteDelayedJobs() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-w.shutdown:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := w.queue.ProcessDelayedJobs(ctx); err != nil {
				log.Printf("Error promoting delayed jobs: %v", err)
			}
			cancel()
		}
	}
}

func (w *Worker) processJob(job *queue.Job) error {
	switch job.Type {
	case queue.JobTypeProcessWebhookEvent:
		return w.processWebhookEvent(job)
	case queue.JobTypeRefreshTransferStatus:
		return w.refreshTransferStatus(job)
	case queue.JobTypeCancelIntent:
		return w.cancelIntent(job)
	default:
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// processWebhookEvent reacts to a verified processor notification. The
// service keeps no payment records, so the reaction is remote-side only:
// failed intents are cancelled to release any hold, terminal states are
// logged for the operator.
func (w *Worker) processWebhookEvent(job *queue.Job) error {
	eventType, _ := job.Data["event_type"].(string)
	intentID, _ := job.Data["intent_id"].(string)
	if eventType == "" || intentID == "" {
		return fmt.Errorf("webhook event job missing event_type or intent_id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch eventType {
	case processorapi.EventIntentFailed:
		intent, err := w.paymentService.Retrieve(ctx, intentID)
		if err != nil {
			return fmt.Errorf("failed to retrieve intent %s: %v", intentID, err)
		}
		if intent.Status == processorapi.IntentStatusCanceled || intent.Status == processorapi.IntentStatusSucceeded {
			log.Printf("Intent %s already %s, nothing to do", intentID, intent.Status)
			return nil
		}
		if _, err := w.paymentService.Cancel(ctx, intentID); err != nil {
			return fmt.Errorf("failed to cancel intent %s after payment failure: %v", intentID, err)
		}
		log.Printf("Cancelled intent %s after payment failure notification", intentID)
		return nil

	case processorapi.EventIntentSucceeded, processorapi.EventIntentCanceled:
		log.Printf("Intent %s reached terminal state via webhook: %s", intentID, eventType)
		return nil

	default:
		log.Printf("Ignoring unhandled webhook event type %s for intent %s", eventType, intentID)
		return nil
	}
}

// refreshTransferStatus polls the provider once for a recently created
// transfer and logs where it stands.
func (w *Worker) refreshTransferStatus(job *queue.Job) error {
	transferID, ok := job.Data["transfer_id"].(float64)
	if !ok {
		return fmt.Errorf("refresh job missing transfer_id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t, err := w.transferService.GetTransfer(ctx, int64(transferID))
	if err != nil {
		return fmt.Errorf("failed to refresh transfer %d: %v", int64(transferID), err)
	}

	log.Printf("Transfer %d status: %s (%s)", t.ID, t.Status, track.TransferStatusLabel(t.Status))
	return nil
}

// cancelIntent releases an abandoned pre-authorization hold.
func (w *Worker) cancelIntent(job *queue.Job) error {
	intentID, _ := job.Data["intent_id"].(string)
	if intentID == "" {
		return fmt.Errorf("cancel job missing intent_id")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	intent, err := w.paymentService.Retrieve(ctx, intentID)
	if err != nil {
		if processorapi.IsNotFound(err) {
			log.Printf("Intent %s no longer exists, skipping cancellation", intentID)
			return nil
		}
		return fmt.Errorf("failed to retrieve intent %s: %v", intentID, err)
	}

	if intent.Status != processorapi.IntentStatusRequiresCapture {
		log.Printf("Intent %s is %s, pre-auth cancellation not needed", intentID, intent.Status)
		return nil
	}

	if _, err := w.paymentService.Cancel(ctx, intentID); err != nil {
		return fmt.Errorf("failed to cancel abandoned pre-auth %s: %v", intentID, err)
	}

	log.Printf("Released abandoned pre-authorization %s", intentID)
	return nil
}
